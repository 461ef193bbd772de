// Package valuation is the pricing kernel: cash-flow projection under rate
// features, curve-based discounting, option-adjusted value for callable
// deposits, Newton-Raphson yield and Z-spread solvers, and finite-difference
// risk sensitivities. Every operation is a pure function of its inputs.
package valuation

import "time"

// Kind classifies a cash flow.
type Kind string

const (
	Interest  Kind = "INTEREST"
	Principal Kind = "PRINCIPAL"
)

// CashFlow is a single dated payment. Amounts are in currency units.
//
// CashFlows are produced only by ProjectCashflows and are never mutated by
// downstream consumers.
type CashFlow struct {
	Date   time.Time `json:"payment_date"`
	Amount float64   `json:"amount"`
	Kind   Kind      `json:"payment_type"`
}
