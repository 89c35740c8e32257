package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary is the portfolio overview rendered on the home screen.
type DashboardSummary struct {
	ActiveLoans      int             `json:"active_loans"`
	CompletedLoans   int             `json:"completed_loans"`
	DefaultedLoans   int             `json:"defaulted_loans"`
	OverdueLoans     int             `json:"overdue_loans"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	GeneratedAt      time.Time       `json:"generated_at"`

	// Display strings are formatted by the currency collaborator; the
	// raw decimals above stay the source of truth.
	TotalOutstandingDisplay string `json:"total_outstanding_display,omitempty"`
	TotalCollectedDisplay   string `json:"total_collected_display,omitempty"`
}
