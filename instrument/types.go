// Package instrument defines the immutable instrument snapshots consumed by
// the valuation and credit analytics packages. Every value here is a plain
// record constructed per valuation call; nothing in this package mutates
// after construction.
package instrument

import "time"

// Status is the lifecycle state of an instrument.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusMatured      Status = "MATURED"
	StatusDefaulted    Status = "DEFAULTED"
	StatusRestructured Status = "RESTRUCTURED"
	StatusCancelled    Status = "CANCELLED"
)

// Frequency is a payment or reset frequency.
type Frequency string

const (
	Daily      Frequency = "DAILY"
	Weekly     Frequency = "WEEKLY"
	Monthly    Frequency = "MONTHLY"
	Quarterly  Frequency = "QUARTERLY"
	SemiAnnual Frequency = "SEMI_ANNUAL"
	Annual     Frequency = "ANNUAL"
)

// Convention is a day count convention identifier.
type Convention string

const (
	ACT360    Convention = "ACT/360"
	ACT365    Convention = "ACT/365"
	Thirty360 Convention = "30/360"
	ActAct    Convention = "ACT/ACT"
)

// Base carries the fields common to all instrument kinds.
type Base struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Status             Status    `json:"status"`
	Currency           string    `json:"currency"`
	IssueDate          time.Time `json:"issue_date"`
	MaturityDate       time.Time `json:"maturity_date"`
	CounterpartyID     string    `json:"counterparty_id"`
	CounterpartyRating string    `json:"counterparty_rating"`
	BookingEntity      string    `json:"booking_entity"`
	TradingBook        string    `json:"trading_book"`
	CostCenter         string    `json:"cost_center"`
}

// Instrument is the closed set of instrument kinds. Operations route by an
// exhaustive type switch over this interface; adding a kind means the
// compiler finds every switch that needs a new arm.
type Instrument interface {
	Common() Base
	isInstrument()
}

// Deposit is a time deposit snapshot.
type Deposit struct {
	Base
	Principal              float64      `json:"principal"`
	Rate                   RateFeature  `json:"-"`
	PaymentFrequency       Frequency    `json:"payment_frequency"`
	DayCount               Convention   `json:"day_count_convention"`
	CompoundingFrequency   Frequency    `json:"compounding_frequency"`
	AllowEarlyWithdrawal   bool         `json:"allow_early_withdrawal"`
	EarlyWithdrawalPenalty float64      `json:"early_withdrawal_penalty,omitempty"`
	Callable               bool         `json:"is_callable"`
	CallSchedule           []CallOption `json:"call_schedule,omitempty"`
}

func (d Deposit) Common() Base  { return d.Base }
func (d Deposit) isInstrument() {}

// Participant is a syndication participant on a term loan.
type Participant struct {
	ParticipantID           string  `json:"participant_id"`
	ParticipationAmount     float64 `json:"participation_amount"`
	ParticipationPercentage float64 `json:"participation_percentage"`
	Transferable            bool    `json:"transferable"`
	MinimumHoldAmount       float64 `json:"minimum_hold_amount"`
}

// Covenant is a financial covenant attached to a term loan.
type Covenant struct {
	Type             string    `json:"type"`
	Description      string    `json:"description"`
	Threshold        float64   `json:"threshold"`
	TestingFrequency Frequency `json:"testing_frequency"`
	LastTestDate     time.Time `json:"last_test_date"`
	LastTestResult   bool      `json:"last_test_result"`
}

// Loan is a term loan snapshot. Cash-flow projection for loans is an open
// extension point; only exposure-side analytics consume these fields today.
type Loan struct {
	Base
	FacilityAmount    float64       `json:"facility_amount"`
	OutstandingAmount float64       `json:"outstanding_amount"`
	AmortizationType  string        `json:"amortization_type"`
	Rate              RateFeature   `json:"-"`
	DefaultSpread     float64       `json:"default_spread"`
	PaymentFrequency  Frequency     `json:"payment_frequency"`
	UpfrontFee        float64       `json:"upfront_fee"`
	CommitmentFee     float64       `json:"commitment_fee"`
	AgentFee          float64       `json:"agent_fee"`
	Participants      []Participant `json:"participants,omitempty"`
	AgentBank         string        `json:"agent_bank"`
	Covenants         []Covenant    `json:"financial_covenants,omitempty"`
}

func (l Loan) Common() Base  { return l.Base }
func (l Loan) isInstrument() {}
