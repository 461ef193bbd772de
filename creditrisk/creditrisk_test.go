package creditrisk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/depolib/instrument"
)

func testAnalytics(opts ...Option) *Analytics {
	transitions := map[string]map[string]float64{
		"A": {"AA": 0.02, "A": 0.90, "BBB": 0.07, "DEFAULT": 0.01},
	}
	defaultRates := map[string]float64{"A": 0.01, "BBB": 0.02}
	recoveryRates := map[string]float64{"A": 0.45, "BBB": 0.40}
	return New(transitions, defaultRates, recoveryRates, opts...)
}

func testDeposit() instrument.Deposit {
	return instrument.Deposit{
		Base: instrument.Base{
			ID:                 "TEST001",
			CounterpartyID:     "CP001",
			CounterpartyRating: "A",
			IssueDate:          time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
			MaturityDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		Principal: 1000000,
	}
}

func TestProbabilityOfDefault_Merton(t *testing.T) {
	a := testAnalytics()
	md := MarketData{
		AssetValue:      150,
		AssetVolatility: 0.25,
		DebtValue:       100,
		RiskFreeRate:    0.03,
	}

	// d2 = (ln(1.5) + (0.03 + 0.5*0.25^2)) / 0.25 - 0.25 ≈ 1.6169
	pd := a.probabilityOfDefault("A", md)
	assert.InDelta(t, 0.0530, pd, 1e-3)
}

func TestProbabilityOfDefault_FallsBackToRating(t *testing.T) {
	a := testAnalytics()

	pd := a.probabilityOfDefault("A", MarketData{})
	assert.Equal(t, 0.01, pd)
}

func TestProbabilityOfDefault_UnknownRatingFallback(t *testing.T) {
	a := testAnalytics()

	pd := a.probabilityOfDefault("NR", MarketData{})
	assert.Equal(t, fallbackPD, pd)
}

func TestLossGivenDefault(t *testing.T) {
	a := testAnalytics()

	t.Run("uncollateralized", func(t *testing.T) {
		lgd := a.lossGivenDefault("A", 0, 1000000)
		assert.InDelta(t, 0.55, lgd, 1e-12)
	})

	t.Run("collateral reduces loss", func(t *testing.T) {
		// coverage 0.5, half credited: 1 - (0.45 + 0.25) = 0.30
		lgd := a.lossGivenDefault("A", 500000, 1000000)
		assert.InDelta(t, 0.30, lgd, 1e-12)
	})

	t.Run("overcollateralized floors at zero", func(t *testing.T) {
		lgd := a.lossGivenDefault("A", 5000000, 1000000)
		assert.Equal(t, 0.0, lgd)
	})

	t.Run("unknown rating uses fallback recovery", func(t *testing.T) {
		lgd := a.lossGivenDefault("NR", 0, 1000000)
		assert.InDelta(t, 1-fallbackRecovery, lgd, 1e-12)
	})
}

func TestExposureAtDefault(t *testing.T) {
	ead, err := exposureAtDefault(testDeposit())
	require.NoError(t, err)
	assert.Equal(t, 1000000.0, ead)

	loan := instrument.Loan{
		Base:              instrument.Base{ID: "LOAN001", CounterpartyRating: "BBB"},
		FacilityAmount:    8000000,
		OutstandingAmount: 5000000,
	}
	ead, err = exposureAtDefault(loan)
	require.NoError(t, err)
	assert.Equal(t, 5000000.0, ead, "loans are exposed at the drawn amount")
}

func TestCompute_Deposit(t *testing.T) {
	a := testAnalytics(WithSeed(42), WithSimulations(20000))
	md := MarketData{
		AssetValue:      150,
		AssetVolatility: 0.25,
		DebtValue:       100,
		RiskFreeRate:    0.03,
	}

	metrics, err := a.Compute(testDeposit(), md, 0.99)
	require.NoError(t, err)

	assert.InDelta(t, 0.0530, metrics.ProbabilityOfDefault, 1e-3)
	assert.InDelta(t, 0.55, metrics.LossGivenDefault, 1e-12)
	assert.Equal(t, 1000000.0, metrics.ExposureAtDefault)

	wantEL := metrics.ProbabilityOfDefault * metrics.LossGivenDefault * metrics.ExposureAtDefault
	assert.InDelta(t, wantEL, metrics.ExpectedLoss, 1e-9)

	pd := metrics.ProbabilityOfDefault
	wantUL := math.Sqrt(pd*(1-pd)) * metrics.LossGivenDefault * metrics.ExposureAtDefault
	assert.InDelta(t, wantUL, metrics.UnexpectedLoss, 1e-9)

	assert.GreaterOrEqual(t, metrics.CreditVaR, 0.0)
	assert.LessOrEqual(t, metrics.CreditVaR, metrics.LossGivenDefault*metrics.ExposureAtDefault)

	assert.Equal(t, 0.90, metrics.MigrationProbs["A"])
}

func TestCompute_InvalidConfidence(t *testing.T) {
	a := testAnalytics()

	for _, confidence := range []float64{0, 1, -0.5, 1.5} {
		_, err := a.Compute(testDeposit(), MarketData{}, confidence)
		assert.Error(t, err, "confidence %v", confidence)
	}
}

func TestCompute_UnsupportedInstrument(t *testing.T) {
	a := testAnalytics()

	_, err := a.Compute(nil, MarketData{}, 0.99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedInstrument)
}

func TestMonteCarloVaR_ZeroPD(t *testing.T) {
	a := testAnalytics(WithSeed(7))

	value, err := a.monteCarloVaR(0, 0.55, 1000000, 0.99)
	require.NoError(t, err)
	assert.Equal(t, 0.0, value)
}

func TestMonteCarloVaR_CertainDefault(t *testing.T) {
	a := testAnalytics(WithSeed(7), WithSimulations(5000))

	value, err := a.monteCarloVaR(1.0, 0.55, 1000000, 0.99)
	require.NoError(t, err)
	assert.Greater(t, value, 0.0)
	assert.LessOrEqual(t, value, 0.55*1000000)
}

func TestMonteCarloVaR_SameSeedSameResult(t *testing.T) {
	run := func(seed uint64) float64 {
		value, err := testAnalytics(WithSeed(seed), WithSimulations(5000)).
			monteCarloVaR(1.0, 0.55, 1000000, 0.99)
		require.NoError(t, err)
		return value
	}

	first := run(42)
	assert.Equal(t, first, run(42), "default and LGD draws must both follow the seed")
	assert.NotEqual(t, first, run(43))
}

func TestCompute_SameSeedSameResult(t *testing.T) {
	md := MarketData{
		AssetValue:      150,
		AssetVolatility: 0.25,
		DebtValue:       100,
		RiskFreeRate:    0.03,
	}
	run := func() float64 {
		metrics, err := testAnalytics(WithSeed(11), WithSimulations(5000)).
			Compute(testDeposit(), md, 0.99)
		require.NoError(t, err)
		return metrics.CreditVaR
	}

	assert.Equal(t, run(), run())
}

func TestMigrationProbs_CopyIsolated(t *testing.T) {
	a := testAnalytics()

	probs := a.migrationProbs("A")
	probs["A"] = 0.0

	assert.Equal(t, 0.90, a.migrationProbs("A")["A"], "callers must not mutate reference data")
}

func TestMigrationProbs_UnknownRating(t *testing.T) {
	a := testAnalytics()

	probs := a.migrationProbs("ZZZ")
	assert.NotNil(t, probs)
	assert.Empty(t, probs)
}
