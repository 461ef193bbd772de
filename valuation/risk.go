package valuation

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/depolib/instrument"
)

const riskBumpSize = 1e-4

// Risk holds the first- and second-order flat-yield sensitivities.
type Risk struct {
	ModifiedDuration float64
	Convexity        float64
}

// DurationConvexity estimates modified duration and convexity by central
// finite differences around yield:
//
//	D = −(P(y+δ) − P(y−δ)) / (2δ·P(y))
//	C =  (P(y+δ) + P(y−δ) − 2P(y)) / (δ²·P(y))
//
// An instrument whose base price is ≈0 has no defined sensitivities and
// returns an error.
func DurationConvexity(inst instrument.Instrument, asOf time.Time, yield float64) (Risk, error) {
	price, err := PriceWithYield(inst, asOf, yield)
	if err != nil {
		return Risk{}, fmt.Errorf("DurationConvexity: %w", err)
	}
	if math.Abs(price) < 1e-12 {
		return Risk{}, fmt.Errorf("DurationConvexity: base price is zero")
	}

	priceUp, err := PriceWithYield(inst, asOf, yield+riskBumpSize)
	if err != nil {
		return Risk{}, fmt.Errorf("DurationConvexity: %w", err)
	}
	priceDown, err := PriceWithYield(inst, asOf, yield-riskBumpSize)
	if err != nil {
		return Risk{}, fmt.Errorf("DurationConvexity: %w", err)
	}

	return Risk{
		ModifiedDuration: -(priceUp - priceDown) / (2 * riskBumpSize * price),
		Convexity:        (priceUp + priceDown - 2*price) / (riskBumpSize * riskBumpSize * price),
	}, nil
}
