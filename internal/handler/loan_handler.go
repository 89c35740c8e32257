package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lending-ledger/internal/models"
	"lending-ledger/internal/service"
)

type LoanHandler struct {
	service   *service.LoanService
	dashboard *service.DashboardService
	logger    *zap.Logger
}

func NewLoanHandler(service *service.LoanService, dashboard *service.DashboardService, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{service: service, dashboard: dashboard, logger: logger}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req models.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loan, err := h.service.CreateLoan(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.dashboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"loan": loan})
}

// GetLoan handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c *gin.Context) {
	loan, err := h.service.GetLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// ListLoans handles GET /api/v1/loans, optionally filtered by client_id.
func (h *LoanHandler) ListLoans(c *gin.Context) {
	var (
		loans []*service.LoanView
		err   error
	)
	if clientID := c.Query("client_id"); clientID != "" {
		loans, err = h.service.ListLoansByClient(c.Request.Context(), clientID)
	} else {
		loans, err = h.service.ListLoans(c.Request.Context())
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

// UpdateLoan handles PUT /api/v1/loans/:id
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	var req models.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loan, err := h.service.UpdateLoanTerms(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.dashboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// UpdateLoanStatus handles PUT /api/v1/loans/:id/status
func (h *LoanHandler) UpdateLoanStatus(c *gin.Context) {
	var req models.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.dashboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// GetSchedule handles GET /api/v1/loans/:id/schedule
func (h *LoanHandler) GetSchedule(c *gin.Context) {
	dates, err := h.service.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format("2006-01-02"))
	}
	c.JSON(http.StatusOK, gin.H{"due_dates": formatted})
}

// RecordPayment handles POST /api/v1/loans/:id/payments
func (h *LoanHandler) RecordPayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, loan, err := h.service.RecordPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.dashboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"payment": payment, "loan": loan})
}

// ListPayments handles GET /api/v1/loans/:id/payments
func (h *LoanHandler) ListPayments(c *gin.Context) {
	payments, err := h.service.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// PreviewAmortization handles POST /api/v1/preview/amortization
func (h *LoanHandler) PreviewAmortization(c *gin.Context) {
	var req models.AmortizationPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.service.PreviewAmortization(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

// GetDashboardSummary handles GET /api/v1/dashboard/summary
func (h *LoanHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.dashboard.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
