package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoansCreated counts loans created, by frequency.
	LoansCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loans_created_total",
			Help: "Loans created",
		},
		[]string{"frequency"},
	)

	// PaymentsRecorded counts recorded payments by classification.
	PaymentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_recorded_total",
			Help: "Payments recorded",
		},
		[]string{"status"},
	)

	// CalculationErrors counts rejected inputs by operation.
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Inputs rejected by the loan engine",
		},
		[]string{"operation"},
	)

	// LedgerConflicts counts optimistic-concurrency retries surfaced to
	// callers.
	LedgerConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_conflicts_total",
			Help: "Ledger updates rejected by the version check",
		},
	)
)
