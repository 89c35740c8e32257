package amortization

import (
	"testing"

	"github.com/shopspring/decimal"
)

func ledgerFixture() LedgerState {
	return LedgerState{
		Outstanding:         dec("1150000"),
		PaidAmount:          decimal.Zero,
		PendingInstallments: 12,
		InstallmentAmount:   dec("96000"),
		PartialCarry:        decimal.Zero,
		Status:              StatusActive,
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name            string
		amount          string
		ledger          LedgerState
		wantStatus      PaymentStatus
		wantCovered     int
		wantCarry       string
		wantOutstanding string
		wantPending     int
		wantLoanStatus  Status
	}{
		{
			name:   "partial payment accumulates carry",
			amount: "50000",
			ledger: LedgerState{
				Outstanding:         dec("85000"),
				PendingInstallments: 1,
				InstallmentAmount:   dec("85000"),
				PartialCarry:        decimal.Zero,
				Status:              StatusActive,
			},
			wantStatus:      PaymentPartial,
			wantCovered:     0,
			wantCarry:       "50000",
			wantOutstanding: "35000",
			wantPending:     1,
			wantLoanStatus:  StatusActive,
		},
		{
			name:   "carry plus payment completes exactly one installment",
			amount: "50000",
			ledger: LedgerState{
				Outstanding:         dec("1150000"),
				PendingInstallments: 12,
				InstallmentAmount:   dec("85000"),
				PartialCarry:        dec("35000"),
				Status:              StatusActive,
			},
			wantStatus:      PaymentCompleted,
			wantCovered:     1,
			wantCarry:       "0",
			wantOutstanding: "1100000",
			wantPending:     11,
			wantLoanStatus:  StatusActive,
		},
		{
			name:            "large payment covers several installments",
			amount:          "300000",
			ledger:          ledgerFixture(),
			wantStatus:      PaymentCompleted,
			wantCovered:     3,
			wantCarry:       "12000",
			wantOutstanding: "850000",
			wantPending:     9,
			wantLoanStatus:  StatusActive,
		},
		{
			name:   "overpayment floors outstanding at zero and completes the loan",
			amount: "120000",
			ledger: LedgerState{
				Outstanding:         dec("96000"),
				PaidAmount:          dec("1054000"),
				PendingInstallments: 1,
				InstallmentAmount:   dec("96000"),
				PartialCarry:        decimal.Zero,
				Status:              StatusActive,
			},
			wantStatus:      PaymentCompleted,
			wantCovered:     1,
			wantCarry:       "24000",
			wantOutstanding: "0",
			wantPending:     0,
			wantLoanStatus:  StatusCompleted,
		},
		{
			name:   "defaulted loan stays defaulted on a partial payment",
			amount: "10000",
			ledger: LedgerState{
				Outstanding:         dec("500000"),
				PendingInstallments: 5,
				InstallmentAmount:   dec("96000"),
				PartialCarry:        decimal.Zero,
				Status:              StatusDefaulted,
			},
			wantStatus:      PaymentPartial,
			wantCovered:     0,
			wantCarry:       "10000",
			wantOutstanding: "490000",
			wantPending:     5,
			wantLoanStatus:  StatusDefaulted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, got, err := Allocate(dec(tt.amount), tt.ledger)
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("classification = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.InstallmentsCovered != tt.wantCovered {
				t.Errorf("installments covered = %d, want %d", got.InstallmentsCovered, tt.wantCovered)
			}
			if !updated.PartialCarry.Equal(dec(tt.wantCarry)) {
				t.Errorf("carry = %s, want %s", updated.PartialCarry, tt.wantCarry)
			}
			if !updated.Outstanding.Equal(dec(tt.wantOutstanding)) {
				t.Errorf("outstanding = %s, want %s", updated.Outstanding, tt.wantOutstanding)
			}
			if updated.PendingInstallments != tt.wantPending {
				t.Errorf("pending = %d, want %d", updated.PendingInstallments, tt.wantPending)
			}
			if updated.Status != tt.wantLoanStatus {
				t.Errorf("loan status = %s, want %s", updated.Status, tt.wantLoanStatus)
			}
			wantPaid := tt.ledger.PaidAmount.Add(dec(tt.amount))
			if !updated.PaidAmount.Equal(wantPaid) {
				t.Errorf("paid = %s, want %s", updated.PaidAmount, wantPaid)
			}
		})
	}
}

func TestAllocateRejectsNonPositiveAmounts(t *testing.T) {
	ledger := ledgerFixture()
	before := ledger

	for _, amount := range []string{"0", "-1", "-50000"} {
		if _, _, err := Allocate(dec(amount), ledger); err == nil {
			t.Errorf("Allocate(%s): expected error", amount)
		}
	}

	// Rejection must leave the caller's ledger untouched.
	if !ledger.Outstanding.Equal(before.Outstanding) ||
		!ledger.PartialCarry.Equal(before.PartialCarry) ||
		ledger.PendingInstallments != before.PendingInstallments ||
		ledger.Status != before.Status {
		t.Error("ledger mutated by rejected payment")
	}
}

// Paying two installments in one payment or as two separate payments must
// land on the same outstanding balance and total coverage.
func TestAllocateSplitPaymentEquivalence(t *testing.T) {
	ledger := ledgerFixture()
	installment := ledger.InstallmentAmount
	double := installment.Mul(decimal.NewFromInt(2))

	once, onceClass, err := Allocate(double, ledger)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	first, firstClass, err := Allocate(installment, ledger)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	second, secondClass, err := Allocate(installment, first)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	if !once.Outstanding.Equal(second.Outstanding) {
		t.Errorf("outstanding differs: %s vs %s", once.Outstanding, second.Outstanding)
	}
	if !once.PartialCarry.Equal(second.PartialCarry) {
		t.Errorf("carry differs: %s vs %s", once.PartialCarry, second.PartialCarry)
	}
	if once.PendingInstallments != second.PendingInstallments {
		t.Errorf("pending differs: %d vs %d", once.PendingInstallments, second.PendingInstallments)
	}
	if total := firstClass.InstallmentsCovered + secondClass.InstallmentsCovered; total != onceClass.InstallmentsCovered {
		t.Errorf("total coverage differs: %d vs %d", total, onceClass.InstallmentsCovered)
	}
}
