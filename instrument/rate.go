package instrument

import "time"

// RateFeature is the closed set of coupon rate definitions. Each variant
// carries only the fields that are valid for it, so invalid combinations
// (a fixed rate with a step schedule, say) cannot be constructed.
type RateFeature interface {
	isRateFeature()
}

// FixedRate pays a constant annualized rate for the life of the instrument.
type FixedRate struct {
	Rate float64 `json:"value"`
}

func (FixedRate) isRateFeature() {}

// FloaterType distinguishes floating coupon shapes.
type FloaterType string

const (
	FloaterStandard FloaterType = "STANDARD"
	FloaterInverse  FloaterType = "INVERSE"
	FloaterRange    FloaterType = "RANGE"
)

// FloatingRate pays reference + spread, clamped by any applicable cap and
// floor. Base holds the current reference fixing; the engine does not fetch
// fixings itself.
type FloatingRate struct {
	Base           float64             `json:"value"`
	Spread         float64             `json:"spread"`
	ReferenceRate  string              `json:"reference_rate,omitempty"`
	ResetFrequency Frequency           `json:"reset_frequency,omitempty"`
	Cap            *RateCap            `json:"cap,omitempty"`
	Floor          *RateFloor          `json:"floor,omitempty"`
	Floater        FloaterType         `json:"floater_type,omitempty"`
	Inverse        *InverseFloaterSpec `json:"inverse_spec,omitempty"`
}

func (FloatingRate) isRateFeature() {}

// StepUpRate pays Base until the first schedule entry takes effect, then the
// latest entry whose effective date is on or before the accrual period start.
type StepUpRate struct {
	Base     float64     `json:"value"`
	Schedule []StepEntry `json:"step_up_schedule"`
}

func (StepUpRate) isRateFeature() {}

// StepEntry is one step of a step-up schedule.
type StepEntry struct {
	EffectiveDate time.Time `json:"effective_date"`
	Rate          float64   `json:"rate"`
}

// RateCap limits the period rate from above. A zero Start or End leaves that
// side of the validity window unbounded.
type RateCap struct {
	Rate  float64   `json:"cap_rate"`
	Start time.Time `json:"start_date,omitempty"`
	End   time.Time `json:"end_date,omitempty"`
}

// AppliesTo reports whether the cap window covers an accrual period.
func (c RateCap) AppliesTo(start, end time.Time) bool {
	return appliesTo(c.Start, c.End, start, end)
}

// RateFloor limits the period rate from below, with the same window
// semantics as RateCap.
type RateFloor struct {
	Rate  float64   `json:"floor_rate"`
	Start time.Time `json:"start_date,omitempty"`
	End   time.Time `json:"end_date,omitempty"`
}

// AppliesTo reports whether the floor window covers an accrual period.
func (f RateFloor) AppliesTo(start, end time.Time) bool {
	return appliesTo(f.Start, f.End, start, end)
}

func appliesTo(windowStart, windowEnd, periodStart, periodEnd time.Time) bool {
	if !windowStart.IsZero() && periodStart.Before(windowStart) {
		return false
	}
	if !windowEnd.IsZero() && periodEnd.After(windowEnd) {
		return false
	}
	return true
}

// InverseFloaterSpec defines an inverse floating coupon:
// rate = Constant + Multiplier × reference, with Multiplier typically
// negative. Cap and Floor, when non-nil, bound the resulting rate.
type InverseFloaterSpec struct {
	ReferenceRate string   `json:"reference_rate"`
	Multiplier    float64  `json:"multiplier"`
	Constant      float64  `json:"constant"`
	Cap           *float64 `json:"cap,omitempty"`
	Floor         *float64 `json:"floor,omitempty"`
}

// CallOption is one issuer call right. CallPrice is a fraction of principal
// (1.01 calls at 101% of par).
type CallOption struct {
	CallDate   time.Time `json:"call_date"`
	CallPrice  float64   `json:"call_price"`
	NoticeDays int       `json:"notice_days"`
}
