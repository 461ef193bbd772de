// Package creditrisk computes counterparty credit metrics for deposit and
// loan instruments: Merton-model default probability, loss given default,
// exposure at default, expected and unexpected loss, and a Monte-Carlo
// credit VaR. It consumes instrument snapshots and market-data records and
// is independent of the valuation kernel.
package creditrisk

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/meenmo/depolib/instrument"
)

// ErrUnsupportedInstrument is returned for instrument kinds with no exposure
// rule.
var ErrUnsupportedInstrument = errors.New("unsupported instrument type")

const (
	mertonHorizonYears = 1.0
	fallbackPD         = 0.10
	fallbackRecovery   = 0.40

	// DefaultSimulations is the Monte-Carlo path count for credit VaR.
	DefaultSimulations = 10000
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// MarketData carries the market-side inputs to the Merton model and LGD
// adjustment. Zero AssetValue/DebtValue triggers the rating-based PD
// fallback.
type MarketData struct {
	AssetValue      float64 `json:"asset_value"`
	AssetVolatility float64 `json:"asset_volatility"`
	DebtValue       float64 `json:"debt_value"`
	RiskFreeRate    float64 `json:"risk_free_rate"`
	CollateralValue float64 `json:"collateral_value,omitempty"`
}

// Metrics is the credit metrics record produced per instrument.
type Metrics struct {
	ProbabilityOfDefault float64            `json:"probability_of_default"`
	LossGivenDefault     float64            `json:"loss_given_default"`
	ExposureAtDefault    float64            `json:"exposure_at_default"`
	ExpectedLoss         float64            `json:"expected_loss"`
	UnexpectedLoss       float64            `json:"unexpected_loss"`
	CreditVaR            float64            `json:"credit_var"`
	MigrationProbs       map[string]float64 `json:"credit_rating_migration_probs"`
}

// Analytics holds the rating-level reference data. Construct once, reuse
// across instruments; Compute itself is read-only on the receiver.
type Analytics struct {
	transitions   map[string]map[string]float64
	defaultRates  map[string]float64
	recoveryRates map[string]float64
	simulations   int
	src           rand.Source
}

// Option configures an Analytics.
type Option func(*Analytics)

// WithSimulations overrides the Monte-Carlo path count.
func WithSimulations(n int) Option {
	return func(a *Analytics) { a.simulations = n }
}

// WithSeed makes the credit VaR simulation deterministic: the default draws
// and the LGD samples both consume the seeded source.
func WithSeed(seed uint64) Option {
	return func(a *Analytics) { a.src = rand.NewPCG(seed, seed) }
}

// New builds an Analytics from a rating transition matrix, one-year default
// rates by rating, and recovery rates by rating.
func New(transitions map[string]map[string]float64, defaultRates, recoveryRates map[string]float64, opts ...Option) *Analytics {
	a := &Analytics{
		transitions:   transitions,
		defaultRates:  defaultRates,
		recoveryRates: recoveryRates,
		simulations:   DefaultSimulations,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compute derives the full credit metrics record for one instrument at the
// given VaR confidence level (e.g. 0.99).
func (a *Analytics) Compute(inst instrument.Instrument, md MarketData, confidence float64) (Metrics, error) {
	if confidence <= 0 || confidence >= 1 {
		return Metrics{}, fmt.Errorf("Compute: confidence must be in (0,1), got %v", confidence)
	}

	ead, err := exposureAtDefault(inst)
	if err != nil {
		return Metrics{}, fmt.Errorf("Compute: %w", err)
	}

	rating := inst.Common().CounterpartyRating
	pd := a.probabilityOfDefault(rating, md)
	lgd := a.lossGivenDefault(rating, md.CollateralValue, ead)

	el := pd * lgd * ead
	ul := math.Sqrt(pd*(1-pd)) * lgd * ead

	creditVaR, err := a.monteCarloVaR(pd, lgd, ead, confidence)
	if err != nil {
		return Metrics{}, fmt.Errorf("Compute: %w", err)
	}

	return Metrics{
		ProbabilityOfDefault: pd,
		LossGivenDefault:     lgd,
		ExposureAtDefault:    ead,
		ExpectedLoss:         el,
		UnexpectedLoss:       ul,
		CreditVaR:            creditVaR,
		MigrationProbs:       a.migrationProbs(rating),
	}, nil
}

// probabilityOfDefault applies the one-year Merton model: PD = Φ(−d2). When
// asset or debt inputs are missing it falls back to the rating's historical
// default rate.
func (a *Analytics) probabilityOfDefault(rating string, md MarketData) float64 {
	if md.AssetValue <= 0 || md.DebtValue <= 0 {
		if pd, ok := a.defaultRates[rating]; ok {
			return pd
		}
		return fallbackPD
	}

	sigmaSqrtT := md.AssetVolatility * math.Sqrt(mertonHorizonYears)
	d1 := (math.Log(md.AssetValue/md.DebtValue) +
		(md.RiskFreeRate+0.5*md.AssetVolatility*md.AssetVolatility)*mertonHorizonYears) / sigmaSqrtT
	d2 := d1 - sigmaSqrtT

	return stdNormal.CDF(-d2)
}

// lossGivenDefault starts from the rating's recovery rate and credits half of
// any collateral coverage against the exposure.
func (a *Analytics) lossGivenDefault(rating string, collateral, ead float64) float64 {
	recovery, ok := a.recoveryRates[rating]
	if !ok {
		recovery = fallbackRecovery
	}

	if collateral > 0 && ead > 0 {
		coverage := collateral / ead
		return math.Max(0, 1-(recovery+0.5*coverage))
	}
	return 1 - recovery
}

func exposureAtDefault(inst instrument.Instrument) (float64, error) {
	switch v := inst.(type) {
	case instrument.Deposit:
		return v.Principal, nil
	case instrument.Loan:
		return v.OutstandingAmount, nil
	default:
		return 0, fmt.Errorf("exposureAtDefault: %w: %T", ErrUnsupportedInstrument, inst)
	}
}

// monteCarloVaR simulates per-path losses: a Bernoulli(pd) default draw, and
// on default a Beta(2,5)-scaled LGD applied to EAD. The VaR is the empirical
// percentile of the loss distribution at the confidence level.
func (a *Analytics) monteCarloVaR(pd, lgd, ead, confidence float64) (float64, error) {
	uniform := rand.Float64
	if a.src != nil {
		uniform = rand.New(a.src).Float64
	}
	betaLGD := distuv.Beta{Alpha: 2, Beta: 5, Src: a.src}

	losses := make([]float64, a.simulations)
	for i := range losses {
		if uniform() < pd {
			losses[i] = betaLGD.Rand() * lgd * ead
		}
	}

	value, err := stats.Percentile(losses, confidence*100)
	if err != nil {
		// Percentile rejects an all-equal or degenerate sample only when the
		// input is empty; a zero-loss portfolio legitimately yields zero VaR.
		if errors.Is(err, stats.EmptyInputErr) {
			return 0, nil
		}
		return 0, fmt.Errorf("monteCarloVaR: %w", err)
	}
	return value, nil
}

func (a *Analytics) migrationProbs(rating string) map[string]float64 {
	row, ok := a.transitions[rating]
	if !ok {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
