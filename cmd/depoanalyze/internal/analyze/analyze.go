// Package analyze implements the `depoanalyze analyze` subcommand: full
// valuation, rate-risk, and credit metrics for a single instrument.
package analyze

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meenmo/depolib/config"
	"github.com/meenmo/depolib/creditrisk"
	"github.com/meenmo/depolib/curve"
	"github.com/meenmo/depolib/instrument"
	"github.com/meenmo/depolib/logging"
	"github.com/meenmo/depolib/marketdata"
	"github.com/meenmo/depolib/valuation"
)

type solveJSON struct {
	Value      float64 `json:"value"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

type result struct {
	InstrumentID string `json:"instrument_id"`
	Valuation    struct {
		PresentValue        float64   `json:"present_value"`
		OptionAdjustedValue *float64  `json:"option_adjusted_value,omitempty"`
		YieldToMaturity     solveJSON `json:"ytm"`
	} `json:"valuation"`
	RiskMetrics struct {
		ModifiedDuration float64   `json:"modified_duration"`
		Convexity        float64   `json:"convexity"`
		ZSpread          solveJSON `json:"z_spread"`
	} `json:"risk_metrics"`
	CreditMetrics creditrisk.Metrics `json:"credit_metrics"`
}

// Run executes the subcommand and returns a process exit code.
func Run(args []string, _ io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		instrumentPath = fs.String("instrument", "", "instrument JSON file (required)")
		marketPath     = fs.String("market-data", "", "market data JSON file")
		pgDSN          = fs.String("pg-dsn", "", "Postgres DSN for market data (alternative to -market-data)")
		valuationDate  = fs.String("valuation-date", time.Now().Format("2006-01-02"), "valuation date (YYYY-MM-DD)")
		configPath     = fs.String("config", "", "settings YAML (default $DEPOLIB_CONFIG)")
		outputPath     = fs.String("output", "", "write result JSON to file instead of stdout")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *instrumentPath == "" {
		fmt.Fprintln(stderr, "analyze: -instrument is required")
		fs.Usage()
		return 2
	}
	if *marketPath == "" && *pgDSN == "" {
		fmt.Fprintln(stderr, "analyze: one of -market-data or -pg-dsn is required")
		return 2
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "analyze: config: %v\n", err)
		return 1
	}
	log := logging.New(logging.Config{Level: settings.Log.Level, Pretty: settings.Log.Pretty})

	asOf, err := time.Parse("2006-01-02", *valuationDate)
	if err != nil {
		log.Error().Err(err).Str("valuation_date", *valuationDate).Msg("invalid valuation date")
		return 2
	}

	inst, err := loadInstrument(*instrumentPath)
	if err != nil {
		log.Error().Err(err).Msg("load instrument")
		return 1
	}

	ctx := context.Background()
	record, err := loadMarketData(ctx, *marketPath, *pgDSN, log)
	if err != nil {
		log.Error().Err(err).Msg("load market data")
		return 1
	}

	res, err := compute(inst, asOf, record, settings)
	if err != nil {
		log.Error().Err(err).Msg("analyze")
		return 1
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("marshal result")
		return 1
	}

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, append(out, '\n'), 0o644); err != nil {
			log.Error().Err(err).Msg("write output")
			return 1
		}
		log.Info().Str("path", *outputPath).Msg("wrote analysis")
		return 0
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}

func loadInstrument(path string) (instrument.Instrument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	inst, err := instrument.Decode(raw)
	if err != nil {
		return nil, err
	}
	// Instruments from ad-hoc files may lack an id; analytics keyed by id
	// still need one.
	if inst.Common().ID == "" {
		switch v := inst.(type) {
		case instrument.Deposit:
			v.ID = uuid.NewString()
			return v, nil
		case instrument.Loan:
			v.ID = uuid.NewString()
			return v, nil
		}
	}
	return inst, nil
}

func loadMarketData(ctx context.Context, filePath, pgDSN string, log zerolog.Logger) (marketdata.Record, error) {
	if pgDSN != "" {
		source, err := marketdata.NewPostgresSource(pgDSN, log)
		if err != nil {
			return marketdata.Record{}, err
		}
		defer source.Close()
		return source.MarketData(ctx)
	}
	return marketdata.NewFileSource(filePath).MarketData(ctx)
}

func compute(inst instrument.Instrument, asOf time.Time, record marketdata.Record, settings config.Settings) (result, error) {
	discountCurve, err := curve.New(record.DiscountCurve)
	if err != nil {
		return result{}, err
	}

	var res result
	res.InstrumentID = inst.Common().ID

	pv, err := valuation.Price(inst, asOf, discountCurve)
	if err != nil {
		return result{}, err
	}
	res.Valuation.PresentValue = pv

	if dep, ok := inst.(instrument.Deposit); ok && dep.Callable && record.Volatility > 0 {
		oav, err := valuation.OptionAdjustedValue(dep, asOf, discountCurve, record.Volatility)
		if err != nil {
			return result{}, err
		}
		res.Valuation.OptionAdjustedValue = &oav
	}

	ytm, err := valuation.SolveYield(inst, asOf, record.MarketPrice, settings.Solver.YieldGuess)
	if err != nil {
		return result{}, err
	}
	res.Valuation.YieldToMaturity = solveJSON(ytm)

	zspread, err := valuation.SolveZSpread(inst, asOf, discountCurve, record.MarketPrice, settings.Solver.SpreadGuess)
	if err != nil {
		return result{}, err
	}
	res.RiskMetrics.ZSpread = solveJSON(zspread)

	risk, err := valuation.DurationConvexity(inst, asOf, record.YieldRate)
	if err != nil {
		return result{}, err
	}
	res.RiskMetrics.ModifiedDuration = risk.ModifiedDuration
	res.RiskMetrics.Convexity = risk.Convexity

	analytics := creditrisk.New(
		record.RatingTransitions,
		record.DefaultRates,
		record.RecoveryRates,
		creditrisk.WithSimulations(settings.CreditVaR.Simulations),
	)
	metrics, err := analytics.Compute(inst, record.MarketData, settings.CreditVaR.Confidence)
	if err != nil {
		return result{}, err
	}
	res.CreditMetrics = metrics

	return res, nil
}
