package valuation

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/depolib/curve"
	"github.com/meenmo/depolib/instrument"
)

// yearsFrom measures the discounting time axis: calendar days / 365.
func yearsFrom(asOf, date time.Time) float64 {
	return date.Sub(asOf).Hours() / 24 / 365.0
}

// PresentValue discounts a cash-flow sequence on the curve using continuous
// compounding: each flow contributes amount × e^(−r·t), with r interpolated
// at the flow's year fraction from asOf.
func PresentValue(cashflows []CashFlow, c *curve.Curve, asOf time.Time) (float64, error) {
	if c == nil {
		return 0, fmt.Errorf("PresentValue: nil curve")
	}
	pv := 0.0
	for _, cf := range cashflows {
		t := yearsFrom(asOf, cf.Date)
		pv += cf.Amount * math.Exp(-c.Rate(t)*t)
	}
	return pv, nil
}

// PresentValueFlat discounts every flow at a single flat rate.
func PresentValueFlat(cashflows []CashFlow, rate float64, asOf time.Time) float64 {
	pv := 0.0
	for _, cf := range cashflows {
		t := yearsFrom(asOf, cf.Date)
		pv += cf.Amount * math.Exp(-rate*t)
	}
	return pv
}

// PresentValueSpread discounts on the curve with a uniform spread added to
// every pillar (the Z-spread pricing kernel).
func PresentValueSpread(cashflows []CashFlow, c *curve.Curve, spread float64, asOf time.Time) (float64, error) {
	if c == nil {
		return 0, fmt.Errorf("PresentValueSpread: nil curve")
	}
	pv, err := PresentValue(cashflows, c.Shift(spread), asOf)
	if err != nil {
		return 0, fmt.Errorf("PresentValueSpread: %w", err)
	}
	return pv, nil
}

// Price projects an instrument's cash flows and discounts them on the curve.
func Price(inst instrument.Instrument, asOf time.Time, c *curve.Curve) (float64, error) {
	cashflows, err := ProjectCashflows(inst)
	if err != nil {
		return 0, fmt.Errorf("Price: %w", err)
	}
	pv, err := PresentValue(cashflows, c, asOf)
	if err != nil {
		return 0, fmt.Errorf("Price: %w", err)
	}
	return pv, nil
}

// PriceWithYield prices an instrument at a flat yield. This is the pricing
// function inverted by SolveYield.
func PriceWithYield(inst instrument.Instrument, asOf time.Time, yield float64) (float64, error) {
	cashflows, err := ProjectCashflows(inst)
	if err != nil {
		return 0, fmt.Errorf("PriceWithYield: %w", err)
	}
	return PresentValueFlat(cashflows, yield, asOf), nil
}

// PriceWithSpread prices an instrument on the curve shifted by a uniform
// spread. This is the pricing function inverted by SolveZSpread.
func PriceWithSpread(inst instrument.Instrument, asOf time.Time, c *curve.Curve, spread float64) (float64, error) {
	cashflows, err := ProjectCashflows(inst)
	if err != nil {
		return 0, fmt.Errorf("PriceWithSpread: %w", err)
	}
	pv, err := PresentValueSpread(cashflows, c, spread, asOf)
	if err != nil {
		return 0, fmt.Errorf("PriceWithSpread: %w", err)
	}
	return pv, nil
}
