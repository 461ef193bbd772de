package instrument

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const depositJSON = `{
	"type": "TimeDeposit",
	"id": "TEST001",
	"name": "Test Deposit",
	"status": "ACTIVE",
	"currency": "USD",
	"issue_date": "2023-01-01",
	"maturity_date": "2024-01-01",
	"counterparty_id": "CP001",
	"counterparty_rating": "A",
	"booking_entity": "BANK001",
	"trading_book": "BANKING",
	"cost_center": "CC001",
	"principal": 1000000,
	"interest_rate": {
		"type": "FLOATING",
		"value": 0.05,
		"spread": 0.01,
		"reference_rate": "LIBOR",
		"reset_frequency": "QUARTERLY",
		"cap": {"cap_rate": 0.07},
		"floor": {"floor_rate": 0.02, "start_date": "2023-07-01"}
	},
	"payment_frequency": "QUARTERLY",
	"day_count_convention": "ACT_360",
	"compounding_frequency": "QUARTERLY",
	"is_callable": true,
	"call_schedule": [
		{"call_date": "2023-07-01", "call_price": 1.01, "notice_days": 30}
	]
}`

func TestDecode_Deposit(t *testing.T) {
	inst, err := Decode([]byte(depositJSON))
	require.NoError(t, err)

	dep, ok := inst.(Deposit)
	require.True(t, ok, "expected a Deposit, got %T", inst)

	assert.Equal(t, "TEST001", dep.ID)
	assert.Equal(t, StatusActive, dep.Status)
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), dep.IssueDate)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), dep.MaturityDate)
	assert.Equal(t, 1000000.0, dep.Principal)
	assert.Equal(t, Quarterly, dep.PaymentFrequency)
	assert.Equal(t, ACT360, dep.DayCount, "underscore convention form is normalized")
	assert.True(t, dep.Callable)
	require.Len(t, dep.CallSchedule, 1)
	assert.Equal(t, 1.01, dep.CallSchedule[0].CallPrice)

	rate, ok := dep.Rate.(FloatingRate)
	require.True(t, ok, "expected a FloatingRate, got %T", dep.Rate)
	assert.Equal(t, 0.05, rate.Base)
	assert.Equal(t, 0.01, rate.Spread)
	assert.Equal(t, FloaterStandard, rate.Floater)
	require.NotNil(t, rate.Cap)
	assert.Equal(t, 0.07, rate.Cap.Rate)
	assert.True(t, rate.Cap.Start.IsZero(), "cap window is unbounded")
	require.NotNil(t, rate.Floor)
	assert.Equal(t, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), rate.Floor.Start)
}

func TestDecode_StepUpRate(t *testing.T) {
	raw := `{
		"type": "TimeDeposit",
		"id": "STEP001",
		"issue_date": "2023-01-01",
		"maturity_date": "2025-01-01",
		"principal": 500000,
		"interest_rate": {
			"type": "STEP_UP",
			"value": 0.05,
			"step_up_schedule": [
				{"effective_date": "2023-07-01", "rate": 0.06},
				{"effective_date": "2024-01-01", "rate": 0.07}
			]
		},
		"payment_frequency": "SEMI_ANNUAL",
		"day_count_convention": "30/360",
		"compounding_frequency": "SEMI_ANNUAL"
	}`

	inst, err := Decode([]byte(raw))
	require.NoError(t, err)

	dep := inst.(Deposit)
	rate, ok := dep.Rate.(StepUpRate)
	require.True(t, ok)
	assert.Equal(t, 0.05, rate.Base)
	require.Len(t, rate.Schedule, 2)
	assert.Equal(t, 0.06, rate.Schedule[0].Rate)
	assert.Equal(t, Thirty360, dep.DayCount)
}

func TestDecode_InverseFloater(t *testing.T) {
	raw := `{
		"type": "TimeDeposit",
		"id": "INV001",
		"issue_date": "2023-01-01",
		"maturity_date": "2024-01-01",
		"principal": 750000,
		"interest_rate": {
			"type": "FLOATING",
			"value": 0.04,
			"floater_type": "INVERSE",
			"inverse_spec": {
				"reference_rate": "SOFR",
				"multiplier": -2.0,
				"constant": 0.12,
				"cap": 0.08
			}
		},
		"payment_frequency": "QUARTERLY",
		"day_count_convention": "ACT/365",
		"compounding_frequency": "QUARTERLY"
	}`

	inst, err := Decode([]byte(raw))
	require.NoError(t, err)

	rate := inst.(Deposit).Rate.(FloatingRate)
	assert.Equal(t, FloaterInverse, rate.Floater)
	require.NotNil(t, rate.Inverse)
	assert.Equal(t, -2.0, rate.Inverse.Multiplier)
	require.NotNil(t, rate.Inverse.Cap)
	assert.Equal(t, 0.08, *rate.Inverse.Cap)
	assert.Nil(t, rate.Inverse.Floor)
}

func TestDecode_TermLoan(t *testing.T) {
	raw := `{
		"type": "TermLoan",
		"id": "LOAN001",
		"issue_date": "2023-01-01",
		"maturity_date": "2028-01-01",
		"counterparty_rating": "BBB",
		"facility_amount": 8000000,
		"outstanding_amount": 5000000,
		"amortization_type": "BULLET",
		"interest_rate": {"type": "FIXED", "value": 0.045},
		"payment_frequency": "QUARTERLY",
		"agent_bank": "AGENT01",
		"financial_covenants": [
			{
				"type": "LEVERAGE_RATIO",
				"description": "Net debt / EBITDA below threshold",
				"threshold": 3.5,
				"testing_frequency": "QUARTERLY",
				"last_test_date": "2023-06-30",
				"last_test_result": true
			}
		]
	}`

	inst, err := Decode([]byte(raw))
	require.NoError(t, err)

	loan, ok := inst.(Loan)
	require.True(t, ok)
	assert.Equal(t, 5000000.0, loan.OutstandingAmount)
	assert.Equal(t, FixedRate{Rate: 0.045}, loan.Rate)
	require.Len(t, loan.Covenants, 1)
	assert.Equal(t, "LEVERAGE_RATIO", loan.Covenants[0].Type)
	assert.Equal(t, 3.5, loan.Covenants[0].Threshold)
	assert.Equal(t, Quarterly, loan.Covenants[0].TestingFrequency)
	assert.Equal(t, time.Date(2023, time.June, 30, 0, 0, 0, 0, time.UTC), loan.Covenants[0].LastTestDate)
	assert.True(t, loan.Covenants[0].LastTestResult)
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type": "Swaption"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownInstrumentType)
}

func TestDecode_BadRateType(t *testing.T) {
	raw := `{
		"type": "TimeDeposit",
		"issue_date": "2023-01-01",
		"maturity_date": "2024-01-01",
		"interest_rate": {"type": "LOOKBACK", "value": 0.05}
	}`
	_, err := Decode([]byte(raw))
	require.Error(t, err)
}

func TestDecode_BadDate(t *testing.T) {
	raw := `{
		"type": "TimeDeposit",
		"issue_date": "01/01/2023",
		"maturity_date": "2024-01-01",
		"interest_rate": {"type": "FIXED", "value": 0.05}
	}`
	_, err := Decode([]byte(raw))
	require.Error(t, err)
}
