package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lending-ledger/internal/apperrors"
	"lending-ledger/internal/models"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*models.Payment, error) {
	query := `
		SELECT id, loan_id, amount, payment_date, status, installments_covered, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY payment_date DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("%w: list payments: %v", apperrors.ErrPersistence, err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(
			&payment.ID,
			&payment.LoanID,
			&payment.Amount,
			&payment.PaymentDate,
			&payment.Status,
			&payment.InstallmentsCovered,
			&payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan payment: %v", apperrors.ErrPersistence, err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list payments: %v", apperrors.ErrPersistence, err)
	}
	return payments, nil
}
