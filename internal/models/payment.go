package models

import (
	"time"

	"github.com/shopspring/decimal"

	"lending-ledger/internal/amortization"
)

// Payment is an immutable record of money received against a loan.
type Payment struct {
	ID                  string                     `json:"id" db:"id"`
	LoanID              string                     `json:"loan_id" db:"loan_id"`
	Amount              decimal.Decimal            `json:"amount" db:"amount"`
	PaymentDate         time.Time                  `json:"payment_date" db:"payment_date"`
	Status              amortization.PaymentStatus `json:"status" db:"status"`
	InstallmentsCovered int                        `json:"installments_covered" db:"installments_covered"`
	CreatedAt           time.Time                  `json:"created_at" db:"created_at"`
}

// PaymentRequest records a payment. Amount arrives as a string and is
// parsed before allocation; Date is optional and defaults to today in
// the business timezone.
type PaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Date   string `json:"date"`
}

const PaymentSchema = `
CREATE TABLE IF NOT EXISTS payments (
    id VARCHAR(36) PRIMARY KEY,
    loan_id VARCHAR(36) NOT NULL REFERENCES loans(id),
    amount NUMERIC(19, 4) NOT NULL,
    payment_date DATE NOT NULL,
    status VARCHAR(10) NOT NULL,
    installments_covered INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_payments_loan_id ON payments (loan_id);
CREATE INDEX IF NOT EXISTS idx_payments_payment_date ON payments (payment_date);
`
