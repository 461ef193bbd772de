package valuation

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/meenmo/depolib/curve"
	"github.com/meenmo/depolib/instrument"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// OptionAdjustedValue prices a deposit net of its embedded issuer calls:
// straight present value minus the sum of Black call values for every call
// date strictly after asOf. Call options at or before asOf contribute zero.
//
// The forward price in the Black formula is approximated by the straight
// present value rather than a true forward; the approximation overstates the
// option value slightly but keeps the valuation a single curve pass.
func OptionAdjustedValue(dep instrument.Deposit, asOf time.Time, c *curve.Curve, volatility float64) (float64, error) {
	straightPV, err := Price(dep, asOf, c)
	if err != nil {
		return 0, fmt.Errorf("OptionAdjustedValue: %w", err)
	}

	if !dep.Callable || len(dep.CallSchedule) == 0 {
		return straightPV, nil
	}
	if volatility <= 0 {
		return 0, fmt.Errorf("OptionAdjustedValue: volatility must be positive, got %v", volatility)
	}

	totalOptionValue := 0.0
	for _, call := range dep.CallSchedule {
		if !call.CallDate.After(asOf) {
			continue
		}
		totalOptionValue += blackCall(
			straightPV,
			call.CallPrice*dep.Principal,
			yearsFrom(asOf, call.CallDate),
			c,
			volatility,
		)
	}

	return straightPV - totalOptionValue, nil
}

// blackCall is the lognormal European call value
//
//	d1 = (ln(F/K) + (r + σ²/2)·T) / (σ√T)
//	d2 = d1 − σ√T
//	C  = F·Φ(d1) − K·e^(−r·T)·Φ(d2)
//
// with r read off the discount curve at T.
func blackCall(forward, strike, T float64, c *curve.Curve, sigma float64) float64 {
	if T <= 0 {
		return 0
	}
	r := c.Rate(T)
	sqrtT := math.Sqrt(T)

	d1 := (math.Log(forward/strike) + (r+sigma*sigma/2)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	return forward*stdNormal.CDF(d1) - strike*math.Exp(-r*T)*stdNormal.CDF(d2)
}
