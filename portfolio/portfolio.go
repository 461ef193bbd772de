// Package portfolio aggregates per-instrument analytics into book-level
// metrics. It is glue over the valuation and credit packages and owns no
// pricing logic of its own.
package portfolio

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/meenmo/depolib/instrument"
	"github.com/meenmo/depolib/valuation"
)

// Valuation is one instrument's analytics as consumed by Summarize, keyed by
// instrument ID.
type Valuation struct {
	PresentValue float64
	Risk         valuation.Risk
}

// Summary is the portfolio-level aggregate.
type Summary struct {
	TotalExposure             float64            `json:"total_exposure"`
	AverageDuration           float64            `json:"average_duration"`
	MeanPresentValue          float64            `json:"mean_present_value"`
	MedianPresentValue        float64            `json:"median_present_value"`
	RatingConcentration       map[string]float64 `json:"rating_concentration"`
	CounterpartyConcentration map[string]float64 `json:"counterparty_concentration"`
}

// Summarize computes exposure totals, the exposure-weighted average duration,
// and rating/counterparty concentration shares. Instruments without an entry
// in valuations contribute exposure but not duration.
func Summarize(instruments []instrument.Instrument, valuations map[string]Valuation) (Summary, error) {
	if len(instruments) == 0 {
		return Summary{}, fmt.Errorf("Summarize: no instruments")
	}

	summary := Summary{
		RatingConcentration:       make(map[string]float64),
		CounterpartyConcentration: make(map[string]float64),
	}

	weightedDuration := 0.0
	durationExposure := 0.0
	pvs := make([]float64, 0, len(instruments))

	for _, inst := range instruments {
		exp := exposure(inst)
		common := inst.Common()

		summary.TotalExposure += exp
		summary.RatingConcentration[common.CounterpartyRating] += exp
		summary.CounterpartyConcentration[common.CounterpartyID] += exp

		if v, ok := valuations[common.ID]; ok {
			weightedDuration += exp * v.Risk.ModifiedDuration
			durationExposure += exp
			pvs = append(pvs, v.PresentValue)
		}
	}

	if durationExposure > 0 {
		summary.AverageDuration = weightedDuration / durationExposure
	}
	if summary.TotalExposure > 0 {
		for k, v := range summary.RatingConcentration {
			summary.RatingConcentration[k] = v / summary.TotalExposure
		}
		for k, v := range summary.CounterpartyConcentration {
			summary.CounterpartyConcentration[k] = v / summary.TotalExposure
		}
	}

	if len(pvs) > 0 {
		mean, err := stats.Mean(pvs)
		if err != nil {
			return Summary{}, fmt.Errorf("Summarize: %w", err)
		}
		median, err := stats.Median(pvs)
		if err != nil {
			return Summary{}, fmt.Errorf("Summarize: %w", err)
		}
		summary.MeanPresentValue = mean
		summary.MedianPresentValue = median
	}

	return summary, nil
}

func exposure(inst instrument.Instrument) float64 {
	switch v := inst.(type) {
	case instrument.Deposit:
		return v.Principal
	case instrument.Loan:
		return v.OutstandingAmount
	default:
		return 0
	}
}
