package marketdata

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// PostgresSource reads a market-data snapshot from Postgres.
//
// Expected schema:
//
//	discount_curve     (tenor text, rate double precision)
//	market_snapshot    (market_price, yield_rate, volatility, asset_value,
//	                    asset_volatility, debt_value, risk_free_rate,
//	                    as_of timestamptz)
//	rating_transitions (from_rating text, to_rating text, probability double precision)
//	rating_reference   (rating text, default_rate double precision,
//	                    recovery_rate double precision)
type PostgresSource struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPostgresSource opens a connection pool for the given DSN.
func NewPostgresSource(dsn string, log zerolog.Logger) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresSource: %w", err)
	}
	return &PostgresSource{db: db, log: log}, nil
}

// Close releases the connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

// MarketData assembles the latest snapshot from the market tables.
func (s *PostgresSource) MarketData(ctx context.Context) (Record, error) {
	rec := Record{
		DiscountCurve:     make(map[string]float64),
		RatingTransitions: make(map[string]map[string]float64),
		DefaultRates:      make(map[string]float64),
		RecoveryRates:     make(map[string]float64),
	}

	if err := s.loadCurve(ctx, &rec); err != nil {
		return Record{}, fmt.Errorf("PostgresSource.MarketData: %w", err)
	}
	if err := s.loadSnapshot(ctx, &rec); err != nil {
		return Record{}, fmt.Errorf("PostgresSource.MarketData: %w", err)
	}
	if err := s.loadRatings(ctx, &rec); err != nil {
		return Record{}, fmt.Errorf("PostgresSource.MarketData: %w", err)
	}

	s.log.Debug().
		Int("curve_points", len(rec.DiscountCurve)).
		Float64("market_price", rec.MarketPrice).
		Msg("loaded market data snapshot")
	return rec, nil
}

func (s *PostgresSource) loadCurve(ctx context.Context, rec *Record) error {
	rows, err := s.db.QueryContext(ctx, `SELECT tenor, rate FROM discount_curve`)
	if err != nil {
		return fmt.Errorf("discount_curve: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tenor string
		var rate float64
		if err := rows.Scan(&tenor, &rate); err != nil {
			return fmt.Errorf("discount_curve: %w", err)
		}
		rec.DiscountCurve[tenor] = rate
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("discount_curve: %w", err)
	}
	if len(rec.DiscountCurve) == 0 {
		return fmt.Errorf("discount_curve: no quotes")
	}
	return nil
}

func (s *PostgresSource) loadSnapshot(ctx context.Context, rec *Record) error {
	row := s.db.QueryRowContext(ctx, `
		SELECT market_price, yield_rate, volatility,
		       asset_value, asset_volatility, debt_value, risk_free_rate
		  FROM market_snapshot
		 ORDER BY as_of DESC
		 LIMIT 1`)
	err := row.Scan(
		&rec.MarketPrice, &rec.YieldRate, &rec.Volatility,
		&rec.AssetValue, &rec.AssetVolatility, &rec.DebtValue, &rec.RiskFreeRate,
	)
	if err != nil {
		return fmt.Errorf("market_snapshot: %w", err)
	}
	return nil
}

func (s *PostgresSource) loadRatings(ctx context.Context, rec *Record) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT from_rating, to_rating, probability FROM rating_transitions`)
	if err != nil {
		return fmt.Errorf("rating_transitions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var from, to string
		var prob float64
		if err := rows.Scan(&from, &to, &prob); err != nil {
			return fmt.Errorf("rating_transitions: %w", err)
		}
		if rec.RatingTransitions[from] == nil {
			rec.RatingTransitions[from] = make(map[string]float64)
		}
		rec.RatingTransitions[from][to] = prob
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rating_transitions: %w", err)
	}

	refRows, err := s.db.QueryContext(ctx,
		`SELECT rating, default_rate, recovery_rate FROM rating_reference`)
	if err != nil {
		return fmt.Errorf("rating_reference: %w", err)
	}
	defer refRows.Close()

	for refRows.Next() {
		var rating string
		var defaultRate, recoveryRate float64
		if err := refRows.Scan(&rating, &defaultRate, &recoveryRate); err != nil {
			return fmt.Errorf("rating_reference: %w", err)
		}
		rec.DefaultRates[rating] = defaultRate
		rec.RecoveryRates[rating] = recoveryRate
	}
	return refRows.Err()
}
