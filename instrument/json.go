package instrument

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownInstrumentType is returned by Decode for a type tag with no
// registered decoder.
var ErrUnknownInstrumentType = fmt.Errorf("unknown instrument type")

const dateLayout = "2006-01-02"

// Decode parses an instrument record from its JSON wire form. The format is
// discriminated by the top-level "type" tag ("TimeDeposit" or "TermLoan");
// dates are YYYY-MM-DD strings.
func Decode(data []byte) (Instrument, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("Decode: %w", err)
	}

	switch probe.Type {
	case "TimeDeposit":
		return decodeDeposit(data)
	case "TermLoan":
		return decodeLoan(data)
	default:
		return nil, fmt.Errorf("Decode: %w: %q", ErrUnknownInstrumentType, probe.Type)
	}
}

type wireBase struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Status             string `json:"status"`
	Currency           string `json:"currency"`
	IssueDate          string `json:"issue_date"`
	MaturityDate       string `json:"maturity_date"`
	CounterpartyID     string `json:"counterparty_id"`
	CounterpartyRating string `json:"counterparty_rating"`
	BookingEntity      string `json:"booking_entity"`
	TradingBook        string `json:"trading_book"`
	CostCenter         string `json:"cost_center"`
}

func (w wireBase) toBase() (Base, error) {
	issue, err := parseDate(w.IssueDate)
	if err != nil {
		return Base{}, fmt.Errorf("issue_date: %w", err)
	}
	maturity, err := parseDate(w.MaturityDate)
	if err != nil {
		return Base{}, fmt.Errorf("maturity_date: %w", err)
	}
	return Base{
		ID:                 w.ID,
		Name:               w.Name,
		Status:             Status(w.Status),
		Currency:           w.Currency,
		IssueDate:          issue,
		MaturityDate:       maturity,
		CounterpartyID:     w.CounterpartyID,
		CounterpartyRating: w.CounterpartyRating,
		BookingEntity:      w.BookingEntity,
		TradingBook:        w.TradingBook,
		CostCenter:         w.CostCenter,
	}, nil
}

type wireRate struct {
	Type           string              `json:"type"`
	Value          float64             `json:"value"`
	Spread         float64             `json:"spread"`
	ReferenceRate  string              `json:"reference_rate"`
	ResetFrequency string              `json:"reset_frequency"`
	FloaterType    string              `json:"floater_type"`
	Cap            *wireWindowRate     `json:"cap"`
	Floor          *wireWindowRate     `json:"floor"`
	StepUpSchedule []wireStepEntry     `json:"step_up_schedule"`
	InverseSpec    *InverseFloaterSpec `json:"inverse_spec"`
}

type wireWindowRate struct {
	CapRate   float64 `json:"cap_rate"`
	FloorRate float64 `json:"floor_rate"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

type wireStepEntry struct {
	EffectiveDate string  `json:"effective_date"`
	Rate          float64 `json:"rate"`
}

func (w wireRate) toFeature() (RateFeature, error) {
	switch w.Type {
	case "FIXED":
		return FixedRate{Rate: w.Value}, nil
	case "FLOATING":
		fr := FloatingRate{
			Base:           w.Value,
			Spread:         w.Spread,
			ReferenceRate:  w.ReferenceRate,
			ResetFrequency: Frequency(w.ResetFrequency),
			Floater:        FloaterType(w.FloaterType),
			Inverse:        w.InverseSpec,
		}
		if fr.Floater == "" {
			fr.Floater = FloaterStandard
		}
		if w.Cap != nil {
			start, end, err := parseWindow(w.Cap.StartDate, w.Cap.EndDate)
			if err != nil {
				return nil, fmt.Errorf("cap: %w", err)
			}
			fr.Cap = &RateCap{Rate: w.Cap.CapRate, Start: start, End: end}
		}
		if w.Floor != nil {
			start, end, err := parseWindow(w.Floor.StartDate, w.Floor.EndDate)
			if err != nil {
				return nil, fmt.Errorf("floor: %w", err)
			}
			fr.Floor = &RateFloor{Rate: w.Floor.FloorRate, Start: start, End: end}
		}
		return fr, nil
	case "STEP_UP":
		steps := make([]StepEntry, 0, len(w.StepUpSchedule))
		for _, s := range w.StepUpSchedule {
			d, err := parseDate(s.EffectiveDate)
			if err != nil {
				return nil, fmt.Errorf("step_up_schedule: %w", err)
			}
			steps = append(steps, StepEntry{EffectiveDate: d, Rate: s.Rate})
		}
		return StepUpRate{Base: w.Value, Schedule: steps}, nil
	default:
		return nil, fmt.Errorf("unknown rate type %q", w.Type)
	}
}

type wireCallOption struct {
	CallDate   string  `json:"call_date"`
	CallPrice  float64 `json:"call_price"`
	NoticeDays int     `json:"notice_days"`
}

type wireCovenant struct {
	Type             string  `json:"type"`
	Description      string  `json:"description"`
	Threshold        float64 `json:"threshold"`
	TestingFrequency string  `json:"testing_frequency"`
	LastTestDate     string  `json:"last_test_date"`
	LastTestResult   bool    `json:"last_test_result"`
}

func decodeDeposit(data []byte) (Deposit, error) {
	var w struct {
		wireBase
		Principal              float64          `json:"principal"`
		InterestRate           wireRate         `json:"interest_rate"`
		PaymentFrequency       string           `json:"payment_frequency"`
		DayCountConvention     string           `json:"day_count_convention"`
		CompoundingFrequency   string           `json:"compounding_frequency"`
		AllowEarlyWithdrawal   bool             `json:"allow_early_withdrawal"`
		EarlyWithdrawalPenalty float64          `json:"early_withdrawal_penalty"`
		IsCallable             bool             `json:"is_callable"`
		CallSchedule           []wireCallOption `json:"call_schedule"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return Deposit{}, fmt.Errorf("decodeDeposit: %w", err)
	}

	base, err := w.toBase()
	if err != nil {
		return Deposit{}, fmt.Errorf("decodeDeposit: %w", err)
	}
	rate, err := w.InterestRate.toFeature()
	if err != nil {
		return Deposit{}, fmt.Errorf("decodeDeposit: interest_rate: %w", err)
	}

	calls := make([]CallOption, 0, len(w.CallSchedule))
	for _, c := range w.CallSchedule {
		d, err := parseDate(c.CallDate)
		if err != nil {
			return Deposit{}, fmt.Errorf("decodeDeposit: call_schedule: %w", err)
		}
		calls = append(calls, CallOption{CallDate: d, CallPrice: c.CallPrice, NoticeDays: c.NoticeDays})
	}

	return Deposit{
		Base:                   base,
		Principal:              w.Principal,
		Rate:                   rate,
		PaymentFrequency:       Frequency(w.PaymentFrequency),
		DayCount:               normalizeConvention(w.DayCountConvention),
		CompoundingFrequency:   Frequency(w.CompoundingFrequency),
		AllowEarlyWithdrawal:   w.AllowEarlyWithdrawal,
		EarlyWithdrawalPenalty: w.EarlyWithdrawalPenalty,
		Callable:               w.IsCallable,
		CallSchedule:           calls,
	}, nil
}

func decodeLoan(data []byte) (Loan, error) {
	var w struct {
		wireBase
		FacilityAmount    float64        `json:"facility_amount"`
		OutstandingAmount float64        `json:"outstanding_amount"`
		AmortizationType  string         `json:"amortization_type"`
		InterestRate      wireRate       `json:"interest_rate"`
		DefaultSpread     float64        `json:"default_spread"`
		PaymentFrequency  string         `json:"payment_frequency"`
		UpfrontFee        float64        `json:"upfront_fee"`
		CommitmentFee     float64        `json:"commitment_fee"`
		AgentFee          float64        `json:"agent_fee"`
		Participants      []Participant  `json:"participants"`
		AgentBank         string         `json:"agent_bank"`
		Covenants         []wireCovenant `json:"financial_covenants"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return Loan{}, fmt.Errorf("decodeLoan: %w", err)
	}

	base, err := w.toBase()
	if err != nil {
		return Loan{}, fmt.Errorf("decodeLoan: %w", err)
	}
	rate, err := w.InterestRate.toFeature()
	if err != nil {
		return Loan{}, fmt.Errorf("decodeLoan: interest_rate: %w", err)
	}

	covenants := make([]Covenant, 0, len(w.Covenants))
	for _, c := range w.Covenants {
		tested, err := parseDate(c.LastTestDate)
		if err != nil {
			return Loan{}, fmt.Errorf("decodeLoan: financial_covenants: %w", err)
		}
		covenants = append(covenants, Covenant{
			Type:             c.Type,
			Description:      c.Description,
			Threshold:        c.Threshold,
			TestingFrequency: Frequency(c.TestingFrequency),
			LastTestDate:     tested,
			LastTestResult:   c.LastTestResult,
		})
	}

	return Loan{
		Base:              base,
		FacilityAmount:    w.FacilityAmount,
		OutstandingAmount: w.OutstandingAmount,
		AmortizationType:  w.AmortizationType,
		Rate:              rate,
		DefaultSpread:     w.DefaultSpread,
		PaymentFrequency:  Frequency(w.PaymentFrequency),
		UpfrontFee:        w.UpfrontFee,
		CommitmentFee:     w.CommitmentFee,
		AgentFee:          w.AgentFee,
		Participants:      w.Participants,
		AgentBank:         w.AgentBank,
		Covenants:         covenants,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func parseWindow(start, end string) (time.Time, time.Time, error) {
	s, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

// normalizeConvention accepts both the slash form ("ACT/360") and the
// underscore enum-name form ("ACT_360") seen in older instrument files.
func normalizeConvention(s string) Convention {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACT_360", "ACT/360":
		return ACT360
	case "ACT_365", "ACT/365":
		return ACT365
	case "THIRTY_360", "30/360":
		return Thirty360
	case "ACT_ACT", "ACT/ACT":
		return ActAct
	default:
		return Convention(s)
	}
}
