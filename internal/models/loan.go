package models

import (
	"time"

	"github.com/shopspring/decimal"

	"lending-ledger/internal/amortization"
)

// Loan is a loan row: the immutable terms, the derived amortization
// amounts, and the mutable ledger fields. Version backs the optimistic
// concurrency check on ledger updates.
type Loan struct {
	ID       string `json:"id" db:"id"`
	ClientID string `json:"client_id" db:"client_id"`

	// Terms
	Principal         decimal.Decimal        `json:"principal" db:"principal"`
	AnnualRatePercent decimal.Decimal        `json:"annual_rate_percent" db:"annual_rate_percent"`
	TermCount         int                    `json:"term_count" db:"term_count"`
	Frequency         amortization.Frequency `json:"frequency" db:"frequency"`
	StartDate         time.Time              `json:"start_date" db:"start_date"`
	FirstPaymentDate  time.Time              `json:"first_payment_date" db:"first_payment_date"`

	// Derived amounts
	InstallmentAmount decimal.Decimal `json:"installment_amount" db:"installment_amount"`
	TotalInterest     decimal.Decimal `json:"total_interest" db:"total_interest"`
	TotalPayable      decimal.Decimal `json:"total_payable" db:"total_payable"`

	// Ledger
	Outstanding         decimal.Decimal     `json:"outstanding" db:"outstanding"`
	PaidAmount          decimal.Decimal     `json:"paid_amount" db:"paid_amount"`
	PendingInstallments int                 `json:"pending_installments" db:"pending_installments"`
	PartialCarry        decimal.Decimal     `json:"partial_carry" db:"partial_carry"`
	DueDate             time.Time           `json:"due_date" db:"due_date"`
	Status              amortization.Status `json:"status" db:"status"`

	Version   int64     `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Ledger extracts the allocation view of the loan.
func (l *Loan) Ledger() amortization.LedgerState {
	return amortization.LedgerState{
		Outstanding:         l.Outstanding,
		PaidAmount:          l.PaidAmount,
		PendingInstallments: l.PendingInstallments,
		InstallmentAmount:   l.InstallmentAmount,
		PartialCarry:        l.PartialCarry,
		Status:              l.Status,
	}
}

// ApplyLedger writes an allocation result back onto the row.
func (l *Loan) ApplyLedger(state amortization.LedgerState) {
	l.Outstanding = state.Outstanding
	l.PaidAmount = state.PaidAmount
	l.PendingInstallments = state.PendingInstallments
	l.PartialCarry = state.PartialCarry
	l.Status = state.Status
}

// LoanRequest carries loan terms from the form layer. Numeric fields
// arrive as strings and are parsed and validated before any computation.
type LoanRequest struct {
	ClientID          string `json:"client_id" binding:"required"`
	Principal         string `json:"principal" binding:"required"`
	AnnualRatePercent string `json:"annual_rate_percent" binding:"required"`
	TermCount         string `json:"term_count" binding:"required"`
	Frequency         string `json:"frequency" binding:"required"`
	StartDate         string `json:"start_date" binding:"required"`
	FirstPaymentDate  string `json:"first_payment_date" binding:"required"`
}

// AmortizationPreviewRequest asks for the derived amounts and schedule
// without touching any loan.
type AmortizationPreviewRequest struct {
	Principal         string `json:"principal" binding:"required"`
	AnnualRatePercent string `json:"annual_rate_percent" binding:"required"`
	TermCount         string `json:"term_count" binding:"required"`
	Frequency         string `json:"frequency" binding:"required"`
	FirstPaymentDate  string `json:"first_payment_date"`
}

// StatusRequest is the manual status override.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

const LoanSchema = `
CREATE TABLE IF NOT EXISTS loans (
    id VARCHAR(36) PRIMARY KEY,
    client_id VARCHAR(36) NOT NULL REFERENCES clients(id),
    principal NUMERIC(19, 4) NOT NULL,
    annual_rate_percent NUMERIC(9, 4) NOT NULL,
    term_count INT NOT NULL,
    frequency VARCHAR(10) NOT NULL,
    start_date DATE NOT NULL,
    first_payment_date DATE NOT NULL,
    installment_amount NUMERIC(19, 4) NOT NULL,
    total_interest NUMERIC(19, 4) NOT NULL,
    total_payable NUMERIC(19, 4) NOT NULL,
    outstanding NUMERIC(19, 4) NOT NULL,
    paid_amount NUMERIC(19, 4) NOT NULL DEFAULT 0,
    pending_installments INT NOT NULL,
    partial_carry NUMERIC(19, 4) NOT NULL DEFAULT 0,
    due_date DATE NOT NULL,
    status VARCHAR(12) NOT NULL,
    version BIGINT NOT NULL DEFAULT 1,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_loans_client_id ON loans (client_id);
CREATE INDEX IF NOT EXISTS idx_loans_status ON loans (status);
CREATE INDEX IF NOT EXISTS idx_loans_due_date ON loans (due_date);
`
