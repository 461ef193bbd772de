package valuation

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/depolib/curve"
	"github.com/meenmo/depolib/instrument"
)

const (
	solverMaxIter   = 100
	solverTolerance = 1e-6
	solverStep      = 1e-4

	// DefaultYieldGuess seeds SolveYield when the caller has no view.
	DefaultYieldGuess = 0.05
	// DefaultSpreadGuess seeds SolveZSpread.
	DefaultSpreadGuess = 0.01
)

// SolveResult is the outcome of a Newton-Raphson solve. Value is the last
// iterate whether or not the solver converged; callers that need a hard
// guarantee must check Converged.
type SolveResult struct {
	Value      float64
	Iterations int
	Converged  bool
}

// SolveYield finds the flat yield that reprices the instrument's cash flows
// to marketPrice.
func SolveYield(inst instrument.Instrument, asOf time.Time, marketPrice, guess float64) (SolveResult, error) {
	cashflows, err := ProjectCashflows(inst)
	if err != nil {
		return SolveResult{}, fmt.Errorf("SolveYield: %w", err)
	}

	f := func(y float64) float64 {
		return PresentValueFlat(cashflows, y, asOf) - marketPrice
	}
	return newton(f, guess)
}

// SolveZSpread finds the uniform spread over the curve that reprices the
// instrument's cash flows to marketPrice.
func SolveZSpread(inst instrument.Instrument, asOf time.Time, c *curve.Curve, marketPrice, guess float64) (SolveResult, error) {
	if c == nil {
		return SolveResult{}, fmt.Errorf("SolveZSpread: nil curve")
	}
	cashflows, err := ProjectCashflows(inst)
	if err != nil {
		return SolveResult{}, fmt.Errorf("SolveZSpread: %w", err)
	}

	var pvErr error
	f := func(s float64) float64 {
		pv, err := PresentValueSpread(cashflows, c, s, asOf)
		if err != nil && pvErr == nil {
			pvErr = err
		}
		return pv - marketPrice
	}
	res, err := newton(f, guess)
	if pvErr != nil {
		return SolveResult{}, fmt.Errorf("SolveZSpread: %w", pvErr)
	}
	return res, err
}

// newton iterates x ← x − f(x)/f'(x) with a forward-difference derivative
// until |f(x)| < solverTolerance or the iteration cap is reached.
func newton(f func(float64) float64, guess float64) (SolveResult, error) {
	x := guess
	for iter := 0; iter < solverMaxIter; iter++ {
		fx := f(x)
		if math.Abs(fx) < solverTolerance {
			return SolveResult{Value: x, Iterations: iter, Converged: true}, nil
		}

		dfx := (f(x+solverStep) - fx) / solverStep
		if math.Abs(dfx) < 1e-15 {
			return SolveResult{Value: x, Iterations: iter},
				fmt.Errorf("newton: derivative vanished at iteration %d", iter)
		}

		x = x - fx/dfx
	}
	return SolveResult{Value: x, Iterations: solverMaxIter, Converged: false}, nil
}
