package amortization

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lending-ledger/internal/apperrors"
)

// Status is the lifecycle state of a loan.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

// ParseStatus converts a request string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusCompleted, StatusDefaulted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidInput, s)
	}
}

// PaymentStatus classifies a single payment, not the loan.
type PaymentStatus string

const (
	PaymentPartial   PaymentStatus = "partial"
	PaymentCompleted PaymentStatus = "completed"
)

// LedgerState is the financial state of a loan that payment allocation
// reads and produces. PartialCarry is the portion of prior payments that
// has not yet reached a full installment; it is always < InstallmentAmount.
type LedgerState struct {
	Outstanding         decimal.Decimal
	PaidAmount          decimal.Decimal
	PendingInstallments int
	InstallmentAmount   decimal.Decimal
	PartialCarry        decimal.Decimal
	Status              Status
}

// Classification describes how one payment landed.
type Classification struct {
	Status              PaymentStatus `json:"status"`
	InstallmentsCovered int           `json:"installments_covered"`
}

// Allocate applies a payment to a ledger and returns the updated state
// plus the payment's classification. The input ledger is never modified.
//
// The payment amount plus the carried partial balance is divided into
// whole installments; the remainder becomes the new carry. A payment that
// covers at least one whole installment classifies as completed,
// otherwise partial. Outstanding decreases by the raw amount, floored at
// zero; when it reaches zero the loan itself completes. Any other status
// change (marking a loan defaulted, reopening it) is operator-driven and
// out of scope here.
func Allocate(amount decimal.Decimal, ledger LedgerState) (LedgerState, Classification, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return LedgerState{}, Classification{}, fmt.Errorf("%w: payment amount must be positive, got %s", apperrors.ErrInvalidInput, amount)
	}
	if ledger.InstallmentAmount.LessThanOrEqual(decimal.Zero) {
		return LedgerState{}, Classification{}, fmt.Errorf("%w: ledger installment amount must be positive", apperrors.ErrInvalidInput)
	}

	combined := amount.Add(ledger.PartialCarry)
	// Mod is exact; dividing the difference back out avoids any
	// precision edge a floored quotient could hit.
	newCarry := combined.Mod(ledger.InstallmentAmount)
	covered := int(combined.Sub(newCarry).Div(ledger.InstallmentAmount).IntPart())

	status := PaymentPartial
	if covered >= 1 {
		status = PaymentCompleted
	}

	newOutstanding := ledger.Outstanding.Sub(amount)
	if newOutstanding.IsNegative() {
		newOutstanding = decimal.Zero
	}

	newPending := ledger.PendingInstallments - covered
	if newPending < 0 {
		newPending = 0
	}

	updated := LedgerState{
		Outstanding:         newOutstanding,
		PaidAmount:          ledger.PaidAmount.Add(amount),
		PendingInstallments: newPending,
		InstallmentAmount:   ledger.InstallmentAmount,
		PartialCarry:        newCarry,
		Status:              ledger.Status,
	}
	if newOutstanding.LessThanOrEqual(decimal.Zero) {
		updated.Status = StatusCompleted
	}

	return updated, Classification{Status: status, InstallmentsCovered: covered}, nil
}
