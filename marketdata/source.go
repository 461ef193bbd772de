// Package marketdata supplies the market-side inputs to a valuation run:
// discount curve quotes, the observed market price, volatility, and the
// rating-level reference data consumed by the credit analytics. The
// valuation kernel itself never reaches into this package; sources feed the
// CLI, which hands plain records to the engine.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/meenmo/depolib/creditrisk"
)

// Record is one market-data snapshot.
type Record struct {
	DiscountCurve map[string]float64 `json:"discount_curve"`
	MarketPrice   float64            `json:"market_price"`
	YieldRate     float64            `json:"yield_rate"`
	Volatility    float64            `json:"volatility"`

	creditrisk.MarketData

	RatingTransitions map[string]map[string]float64 `json:"rating_transitions"`
	DefaultRates      map[string]float64            `json:"default_rates"`
	RecoveryRates     map[string]float64            `json:"recovery_rates"`
}

// Source provides market-data snapshots.
type Source interface {
	MarketData(ctx context.Context) (Record, error)
}

// FileSource reads a snapshot from a JSON file.
type FileSource struct {
	path string
}

// NewFileSource wraps a JSON market-data file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// MarketData loads and parses the file.
func (s *FileSource) MarketData(_ context.Context) (Record, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Record{}, fmt.Errorf("FileSource.MarketData: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("FileSource.MarketData: parse %s: %w", s.path, err)
	}
	if len(rec.DiscountCurve) == 0 {
		return Record{}, fmt.Errorf("FileSource.MarketData: %s: discount_curve is required", s.path)
	}
	return rec, nil
}
