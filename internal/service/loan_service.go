package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lending-ledger/internal/amortization"
	"lending-ledger/internal/apperrors"
	"lending-ledger/internal/metrics"
	"lending-ledger/internal/models"
)

const dateLayout = "2006-01-02"

// LoanStore is the persistence boundary for loans. Implementations must
// make RecordPayment atomic (payment row and ledger update together) and
// reject stale ledger writes with apperrors.ErrConflict.
type LoanStore interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id string) (*models.Loan, error)
	List(ctx context.Context) ([]*models.Loan, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Loan, error)
	UpdateTerms(ctx context.Context, loan *models.Loan) error
	UpdateStatus(ctx context.Context, id string, status string) error
	RecordPayment(ctx context.Context, loan *models.Loan, payment *models.Payment) error
	Summary(ctx context.Context, today time.Time) (*models.DashboardSummary, error)
}

type PaymentStore interface {
	ListByLoan(ctx context.Context, loanID string) ([]*models.Payment, error)
}

type ClientStore interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

// DueStatus classifies a loan's next installment against today.
type DueStatus string

const (
	DueUpToDate DueStatus = "up_to_date"
	DueSoon     DueStatus = "due_soon"
	DueOverdue  DueStatus = "overdue"
)

// dueSoonWindowDays is how close a due date gets before the loan shows
// as at-risk on lists and the dashboard.
const dueSoonWindowDays = 3

// LoanView is a loan plus its display classification.
type LoanView struct {
	*models.Loan
	DueStatus    DueStatus `json:"due_status"`
	DaysUntilDue int       `json:"days_until_due"`
}

// AmortizationPreview is the on-demand calculator response: derived
// amounts plus the due-date sequence, nothing persisted.
type AmortizationPreview struct {
	amortization.Result
	DueDates []time.Time `json:"due_dates,omitempty"`
}

// LoanService projects loan terms and payments into persisted ledger
// state. All money math is delegated to the amortization package; this
// layer parses, validates, composes, and persists.
type LoanService struct {
	loans    LoanStore
	payments PaymentStore
	clients  ClientStore
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewLoanService(loans LoanStore, payments PaymentStore, clients ClientStore, logger *zap.Logger, loc *time.Location) *LoanService {
	return &LoanService{
		loans:    loans,
		payments: payments,
		clients:  clients,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// loanTerms are the parsed, validated inputs of a loan.
type loanTerms struct {
	clientID          string
	principal         decimal.Decimal
	annualRatePercent decimal.Decimal
	termCount         int
	frequency         amortization.Frequency
	startDate         time.Time
	firstPaymentDate  time.Time
}

func (s *LoanService) parseTerms(req models.LoanRequest) (loanTerms, error) {
	terms := loanTerms{clientID: req.ClientID}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return terms, fmt.Errorf("%w: principal %q is not a number", apperrors.ErrInvalidInput, req.Principal)
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return terms, fmt.Errorf("%w: principal must be positive", apperrors.ErrInvalidInput)
	}
	terms.principal = principal

	rate, err := decimal.NewFromString(req.AnnualRatePercent)
	if err != nil {
		return terms, fmt.Errorf("%w: annual_rate_percent %q is not a number", apperrors.ErrInvalidInput, req.AnnualRatePercent)
	}
	if rate.IsNegative() {
		return terms, fmt.Errorf("%w: annual_rate_percent must not be negative", apperrors.ErrInvalidInput)
	}
	terms.annualRatePercent = rate

	termCount, err := strconv.Atoi(req.TermCount)
	if err != nil || termCount <= 0 {
		return terms, fmt.Errorf("%w: term_count %q must be a positive integer", apperrors.ErrInvalidInput, req.TermCount)
	}
	terms.termCount = termCount

	frequency, err := amortization.ParseFrequency(req.Frequency)
	if err != nil {
		return terms, err
	}
	terms.frequency = frequency

	terms.startDate, err = s.parseDate(req.StartDate, "start_date")
	if err != nil {
		return terms, err
	}
	terms.firstPaymentDate, err = s.parseDate(req.FirstPaymentDate, "first_payment_date")
	if err != nil {
		return terms, err
	}

	return terms, nil
}

func (s *LoanService) parseDate(value, field string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a valid date", apperrors.ErrInvalidInput, field, value)
	}
	return t, nil
}

// CreateLoan computes the amortization for the requested terms and
// persists the loan with a fresh ledger: outstanding = total payable,
// all installments pending, first payment date as the next due date.
func (s *LoanService) CreateLoan(ctx context.Context, req models.LoanRequest) (*models.Loan, error) {
	terms, err := s.parseTerms(req)
	if err != nil {
		metrics.CalculationErrors.WithLabelValues("create_loan").Inc()
		return nil, err
	}

	if _, err := s.clients.GetByID(ctx, terms.clientID); err != nil {
		return nil, err
	}

	result, err := amortization.Compute(terms.principal, terms.annualRatePercent, terms.termCount, terms.frequency)
	if err != nil {
		metrics.CalculationErrors.WithLabelValues("create_loan").Inc()
		return nil, err
	}

	now := s.now()
	loan := &models.Loan{
		ID:                  uuid.New().String(),
		ClientID:            terms.clientID,
		Principal:           terms.principal,
		AnnualRatePercent:   terms.annualRatePercent,
		TermCount:           terms.termCount,
		Frequency:           terms.frequency,
		StartDate:           amortization.NormalizeDate(terms.startDate, s.loc),
		FirstPaymentDate:    amortization.NormalizeDate(terms.firstPaymentDate, s.loc),
		InstallmentAmount:   result.InstallmentAmount,
		TotalInterest:       result.TotalInterest,
		TotalPayable:        result.TotalPayable,
		Outstanding:         result.TotalPayable,
		PaidAmount:          decimal.Zero,
		PendingInstallments: terms.termCount,
		PartialCarry:        decimal.Zero,
		DueDate:             amortization.NormalizeDate(terms.firstPaymentDate, s.loc),
		Status:              amortization.StatusActive,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, err
	}

	metrics.LoansCreated.WithLabelValues(string(terms.frequency)).Inc()
	s.logger.Info("loan created",
		zap.String("loan_id", loan.ID),
		zap.String("client_id", loan.ClientID),
		zap.String("total_payable", loan.TotalPayable.String()),
		zap.Int("term_count", loan.TermCount))

	return loan, nil
}

// UpdateLoanTerms replaces a loan's terms and recomputes the schedule
// and ledger from scratch, exactly as on creation. Payments already
// applied are not reconciled against the new schedule; their rows remain
// for history but the ledger restarts.
func (s *LoanService) UpdateLoanTerms(ctx context.Context, id string, req models.LoanRequest) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	terms, err := s.parseTerms(req)
	if err != nil {
		metrics.CalculationErrors.WithLabelValues("update_loan").Inc()
		return nil, err
	}

	result, err := amortization.Compute(terms.principal, terms.annualRatePercent, terms.termCount, terms.frequency)
	if err != nil {
		metrics.CalculationErrors.WithLabelValues("update_loan").Inc()
		return nil, err
	}

	loan.ClientID = terms.clientID
	loan.Principal = terms.principal
	loan.AnnualRatePercent = terms.annualRatePercent
	loan.TermCount = terms.termCount
	loan.Frequency = terms.frequency
	loan.StartDate = amortization.NormalizeDate(terms.startDate, s.loc)
	loan.FirstPaymentDate = amortization.NormalizeDate(terms.firstPaymentDate, s.loc)
	loan.InstallmentAmount = result.InstallmentAmount
	loan.TotalInterest = result.TotalInterest
	loan.TotalPayable = result.TotalPayable
	loan.Outstanding = result.TotalPayable
	loan.PaidAmount = decimal.Zero
	loan.PendingInstallments = terms.termCount
	loan.PartialCarry = decimal.Zero
	loan.DueDate = loan.FirstPaymentDate
	loan.Status = amortization.StatusActive

	if err := s.loans.UpdateTerms(ctx, loan); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.LedgerConflicts.Inc()
		}
		return nil, err
	}
	loan.Version++

	s.logger.Info("loan terms updated", zap.String("loan_id", loan.ID))
	return loan, nil
}

// RecordPayment allocates a payment against the loan's ledger and
// persists the payment row together with the updated ledger. The next
// due date advances one period per installment covered.
func (s *LoanService) RecordPayment(ctx context.Context, loanID string, req models.PaymentRequest) (*models.Payment, *models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		metrics.CalculationErrors.WithLabelValues("record_payment").Inc()
		return nil, nil, fmt.Errorf("%w: amount %q is not a number", apperrors.ErrInvalidInput, req.Amount)
	}

	paymentDate := amortization.NormalizeDate(s.now(), s.loc)
	if req.Date != "" {
		paymentDate, err = s.parseDate(req.Date, "date")
		if err != nil {
			return nil, nil, err
		}
	}

	state, classification, err := amortization.Allocate(amount, loan.Ledger())
	if err != nil {
		metrics.CalculationErrors.WithLabelValues("record_payment").Inc()
		return nil, nil, err
	}
	loan.ApplyLedger(state)

	if classification.InstallmentsCovered > 0 {
		due, err := amortization.DueDate(loan.DueDate, classification.InstallmentsCovered, loan.Frequency, s.loc)
		if err != nil {
			return nil, nil, err
		}
		loan.DueDate = due
	}

	payment := &models.Payment{
		ID:                  uuid.New().String(),
		LoanID:              loan.ID,
		Amount:              amount,
		PaymentDate:         paymentDate,
		Status:              classification.Status,
		InstallmentsCovered: classification.InstallmentsCovered,
		CreatedAt:           s.now(),
	}

	if err := s.loans.RecordPayment(ctx, loan, payment); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.LedgerConflicts.Inc()
		}
		return nil, nil, err
	}
	loan.Version++

	metrics.PaymentsRecorded.WithLabelValues(string(classification.Status)).Inc()
	s.logger.Info("payment recorded",
		zap.String("loan_id", loan.ID),
		zap.String("payment_id", payment.ID),
		zap.String("amount", amount.String()),
		zap.Int("installments_covered", classification.InstallmentsCovered),
		zap.String("outstanding", loan.Outstanding.String()))

	return payment, loan, nil
}

// SetStatus is the manual operator override: mark a loan defaulted,
// reopen it, or close it by hand. Automatic completion stays with the
// allocator.
func (s *LoanService) SetStatus(ctx context.Context, id string, status string) error {
	parsed, err := amortization.ParseStatus(status)
	if err != nil {
		return err
	}
	if err := s.loans.UpdateStatus(ctx, id, string(parsed)); err != nil {
		return err
	}
	s.logger.Info("loan status overridden", zap.String("loan_id", id), zap.String("status", status))
	return nil
}

// GetLoan returns the loan with its due classification.
func (s *LoanService) GetLoan(ctx context.Context, id string) (*LoanView, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(loan), nil
}

// ListLoans returns all loans with due classifications, soonest due
// first.
func (s *LoanService) ListLoans(ctx context.Context) ([]*LoanView, error) {
	loans, err := s.loans.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*LoanView, 0, len(loans))
	for _, loan := range loans {
		views = append(views, s.view(loan))
	}
	return views, nil
}

func (s *LoanService) ListLoansByClient(ctx context.Context, clientID string) ([]*LoanView, error) {
	loans, err := s.loans.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	views := make([]*LoanView, 0, len(loans))
	for _, loan := range loans {
		views = append(views, s.view(loan))
	}
	return views, nil
}

// GetSchedule returns the loan's full due-date sequence.
func (s *LoanService) GetSchedule(ctx context.Context, id string) ([]time.Time, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return amortization.Schedule(loan.FirstPaymentDate, loan.TermCount, loan.Frequency, s.loc)
}

// ListPayments returns the payment history of a loan, newest first.
func (s *LoanService) ListPayments(ctx context.Context, loanID string) ([]*models.Payment, error) {
	if _, err := s.loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.payments.ListByLoan(ctx, loanID)
}

// PreviewAmortization runs the calculator without persisting anything,
// for the loan form's live preview.
func (s *LoanService) PreviewAmortization(req models.AmortizationPreviewRequest) (*AmortizationPreview, error) {
	terms, err := s.parseTerms(models.LoanRequest{
		ClientID:          "preview",
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		TermCount:         req.TermCount,
		Frequency:         req.Frequency,
		StartDate:         firstNonEmpty(req.FirstPaymentDate, s.now().In(s.loc).Format(dateLayout)),
		FirstPaymentDate:  firstNonEmpty(req.FirstPaymentDate, s.now().In(s.loc).Format(dateLayout)),
	})
	if err != nil {
		metrics.CalculationErrors.WithLabelValues("preview").Inc()
		return nil, err
	}

	result, err := amortization.Compute(terms.principal, terms.annualRatePercent, terms.termCount, terms.frequency)
	if err != nil {
		metrics.CalculationErrors.WithLabelValues("preview").Inc()
		return nil, err
	}

	dates, err := amortization.Schedule(terms.firstPaymentDate, terms.termCount, terms.frequency, s.loc)
	if err != nil {
		return nil, err
	}

	return &AmortizationPreview{Result: result, DueDates: dates}, nil
}

func (s *LoanService) view(loan *models.Loan) *LoanView {
	days := amortization.DaysBetween(s.now(), loan.DueDate, s.loc)
	status := DueUpToDate
	if loan.Status == amortization.StatusActive || loan.Status == amortization.StatusDefaulted {
		switch {
		case days < 0:
			status = DueOverdue
		case days <= dueSoonWindowDays:
			status = DueSoon
		}
	}
	return &LoanView{Loan: loan, DueStatus: status, DaysUntilDue: days}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
