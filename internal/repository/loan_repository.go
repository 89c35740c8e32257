package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lending-ledger/internal/apperrors"
	"lending-ledger/internal/models"
)

const loanColumns = `
	id, client_id, principal, annual_rate_percent, term_count, frequency,
	start_date, first_payment_date, installment_amount, total_interest,
	total_payable, outstanding, paid_amount, pending_installments,
	partial_carry, due_date, status, version, created_at, updated_at
`

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.ClientID,
		loan.Principal,
		loan.AnnualRatePercent,
		loan.TermCount,
		loan.Frequency,
		loan.StartDate,
		loan.FirstPaymentDate,
		loan.InstallmentAmount,
		loan.TotalInterest,
		loan.TotalPayable,
		loan.Outstanding,
		loan.PaidAmount,
		loan.PendingInstallments,
		loan.PartialCarry,
		loan.DueDate,
		loan.Status,
		loan.Version,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert loan: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get loan: %v", apperrors.ErrPersistence, err)
	}
	return loan, nil
}

func (r *LoanRepository) List(ctx context.Context) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY due_date, created_at`
	return r.queryLoans(ctx, query)
}

func (r *LoanRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE client_id = $1 ORDER BY created_at DESC`
	return r.queryLoans(ctx, query, clientID)
}

// UpdateTerms overwrites a loan's terms, derived amounts, and ledger
// fields. Editing a loan recomputes everything from scratch, so this is
// a full rewrite guarded by the version check.
func (r *LoanRepository) UpdateTerms(ctx context.Context, loan *models.Loan) error {
	query := `
		UPDATE loans
		SET client_id = $1, principal = $2, annual_rate_percent = $3,
		    term_count = $4, frequency = $5, start_date = $6,
		    first_payment_date = $7, installment_amount = $8,
		    total_interest = $9, total_payable = $10, outstanding = $11,
		    paid_amount = $12, pending_installments = $13,
		    partial_carry = $14, due_date = $15, status = $16,
		    version = version + 1, updated_at = $17
		WHERE id = $18 AND version = $19
	`

	res, err := r.db.ExecContext(ctx, query,
		loan.ClientID,
		loan.Principal,
		loan.AnnualRatePercent,
		loan.TermCount,
		loan.Frequency,
		loan.StartDate,
		loan.FirstPaymentDate,
		loan.InstallmentAmount,
		loan.TotalInterest,
		loan.TotalPayable,
		loan.Outstanding,
		loan.PaidAmount,
		loan.PendingInstallments,
		loan.PartialCarry,
		loan.DueDate,
		loan.Status,
		time.Now(),
		loan.ID,
		loan.Version,
	)
	if err != nil {
		return fmt.Errorf("%w: update loan: %v", apperrors.ErrPersistence, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: loan %s version %d", apperrors.ErrConflict, loan.ID, loan.Version)
	}
	return nil
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET status = $1, version = version + 1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("%w: update loan status: %v", apperrors.ErrPersistence, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, id)
	}
	return nil
}

// RecordPayment inserts the payment row and applies the ledger update in
// one transaction. A payment row without its balance update would break
// the outstanding == totalPayable - paidAmount invariant, so both
// succeed or neither does. The version check rejects a ledger that moved
// since it was read.
func (r *LoanRepository) RecordPayment(ctx context.Context, loan *models.Loan, payment *models.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", apperrors.ErrPersistence, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (id, loan_id, amount, payment_date, status, installments_covered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		payment.ID,
		payment.LoanID,
		payment.Amount,
		payment.PaymentDate,
		payment.Status,
		payment.InstallmentsCovered,
		payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert payment: %v", apperrors.ErrPersistence, err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE loans
		SET outstanding = $1, paid_amount = $2, pending_installments = $3,
		    partial_carry = $4, due_date = $5, status = $6,
		    version = version + 1, updated_at = $7
		WHERE id = $8 AND version = $9
	`,
		loan.Outstanding,
		loan.PaidAmount,
		loan.PendingInstallments,
		loan.PartialCarry,
		loan.DueDate,
		loan.Status,
		time.Now(),
		loan.ID,
		loan.Version,
	)
	if err != nil {
		return fmt.Errorf("%w: update ledger: %v", apperrors.ErrPersistence, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: loan %s version %d", apperrors.ErrConflict, loan.ID, loan.Version)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

// Summary aggregates the portfolio for the dashboard. Overdue means an
// active loan whose next due date is before today in the business
// timezone.
func (r *LoanRepository) Summary(ctx context.Context, today time.Time) (*models.DashboardSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'defaulted'),
			COUNT(*) FILTER (WHERE status = 'active' AND due_date < $1),
			COALESCE(SUM(outstanding) FILTER (WHERE status IN ('active', 'defaulted')), 0),
			COALESCE(SUM(paid_amount), 0)
		FROM loans
	`

	summary := &models.DashboardSummary{GeneratedAt: time.Now()}
	err := r.db.QueryRowContext(ctx, query, today).Scan(
		&summary.ActiveLoans,
		&summary.CompletedLoans,
		&summary.DefaultedLoans,
		&summary.OverdueLoans,
		&summary.TotalOutstanding,
		&summary.TotalCollected,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: portfolio summary: %v", apperrors.ErrPersistence, err)
	}
	return summary, nil
}

func (r *LoanRepository) queryLoans(ctx context.Context, query string, args ...interface{}) ([]*models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list loans: %v", apperrors.ErrPersistence, err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan loan: %v", apperrors.ErrPersistence, err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list loans: %v", apperrors.ErrPersistence, err)
	}
	return loans, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	loan := &models.Loan{}
	err := row.Scan(
		&loan.ID,
		&loan.ClientID,
		&loan.Principal,
		&loan.AnnualRatePercent,
		&loan.TermCount,
		&loan.Frequency,
		&loan.StartDate,
		&loan.FirstPaymentDate,
		&loan.InstallmentAmount,
		&loan.TotalInterest,
		&loan.TotalPayable,
		&loan.Outstanding,
		&loan.PaidAmount,
		&loan.PendingInstallments,
		&loan.PartialCarry,
		&loan.DueDate,
		&loan.Status,
		&loan.Version,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return loan, nil
}
