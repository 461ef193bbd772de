package valuation

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/depolib/daycount"
	"github.com/meenmo/depolib/instrument"
	"github.com/meenmo/depolib/schedule"
)

// ErrUnsupportedInstrument is returned when an operation is invoked on an
// instrument kind it has no rule for. Term loans have no cash-flow
// projection yet (amortization and fee flows are an open extension point).
var ErrUnsupportedInstrument = errors.New("unsupported instrument type")

// ProjectCashflows materializes the full ordered cash-flow sequence for an
// instrument. For a deposit: one interest flow per coupon period, plus the
// principal redemption at maturity.
func ProjectCashflows(inst instrument.Instrument) ([]CashFlow, error) {
	switch v := inst.(type) {
	case instrument.Deposit:
		return projectDeposit(v)
	case instrument.Loan:
		return nil, fmt.Errorf("ProjectCashflows: %w: term loan", ErrUnsupportedInstrument)
	default:
		return nil, fmt.Errorf("ProjectCashflows: %w: %T", ErrUnsupportedInstrument, inst)
	}
}

func projectDeposit(dep instrument.Deposit) ([]CashFlow, error) {
	dates, err := schedule.Generate(dep.IssueDate, dep.MaturityDate, dep.PaymentFrequency)
	if err != nil {
		return nil, fmt.Errorf("projectDeposit: %w", err)
	}

	cashflows := make([]CashFlow, 0, len(dates))
	for i := 1; i < len(dates); i++ {
		periodStart := dates[i-1]
		periodEnd := dates[i]

		rate := PeriodRate(dep.Rate, periodStart, periodEnd)
		dcf, err := daycount.Fraction(periodStart, periodEnd, dep.DayCount)
		if err != nil {
			return nil, fmt.Errorf("projectDeposit: %w", err)
		}

		cashflows = append(cashflows, CashFlow{
			Date:   periodEnd,
			Amount: dep.Principal * rate * dcf,
			Kind:   Interest,
		})

		if periodEnd.Equal(dep.MaturityDate) {
			cashflows = append(cashflows, CashFlow{
				Date:   periodEnd,
				Amount: dep.Principal,
				Kind:   Principal,
			})
		}
	}
	return cashflows, nil
}

// PeriodRate resolves the annualized coupon rate for one accrual period.
//
// Floating rates pay base + spread; inverse floaters pay
// constant + multiplier × base, bounded by the inverse spec's own cap and
// floor. Either shape is then clamped by any cap/floor whose validity window
// covers the period. Step-up rates pay the latest schedule entry effective on
// or before the period start, and the base rate before the first entry.
func PeriodRate(feature instrument.RateFeature, start, end time.Time) float64 {
	switch r := feature.(type) {
	case instrument.FixedRate:
		return r.Rate

	case instrument.FloatingRate:
		var rate float64
		if r.Floater == instrument.FloaterInverse && r.Inverse != nil {
			rate = r.Inverse.Constant + r.Inverse.Multiplier*r.Base
			if r.Inverse.Cap != nil && rate > *r.Inverse.Cap {
				rate = *r.Inverse.Cap
			}
			if r.Inverse.Floor != nil && rate < *r.Inverse.Floor {
				rate = *r.Inverse.Floor
			}
		} else {
			rate = r.Base + r.Spread
		}
		if r.Cap != nil && r.Cap.AppliesTo(start, end) && rate > r.Cap.Rate {
			rate = r.Cap.Rate
		}
		if r.Floor != nil && r.Floor.AppliesTo(start, end) && rate < r.Floor.Rate {
			rate = r.Floor.Rate
		}
		return rate

	case instrument.StepUpRate:
		rate := r.Base
		for _, step := range r.Schedule {
			if step.EffectiveDate.After(start) {
				break
			}
			rate = step.Rate
		}
		return rate

	default:
		return 0
	}
}
