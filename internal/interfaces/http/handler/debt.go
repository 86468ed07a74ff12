package handler

import (
	"iter"
	"net/http"
	"time"

	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/debtbook/backend/internal/infrastructure/logger"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/debtbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DebtHandler handles debt endpoints, including payments nested under a debt
type DebtHandler struct {
	BaseHandler
	debtService    *appledger.DebtService
	paymentService *appledger.PaymentService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *appledger.DebtService, paymentService *appledger.PaymentService) *DebtHandler {
	return &DebtHandler{
		debtService:    debtService,
		paymentService: paymentService,
	}
}

// Create godoc
// @ID           createDebt
// @Summary      Open a debt
// @Description  Open a debt against a client and add it to the client's balance
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateDebtRequest true "Debt"
// @Success      201 {object} dto.Response{data=appledger.DebtResultResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /debts [post]
func (h *DebtHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	input := appledger.CreateDebtInput{
		ClientID:    uuid.MustParse(req.ClientID),
		TotalAmount: *req.TotalAmount,
	}
	if req.DueDate != "" {
		due, err := time.Parse(appledger.DateLayout, req.DueDate)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "due_date must use YYYY-MM-DD")
			return
		}
		input.DueDate = &due
	}

	result, err := h.debtService.Create(c.Request.Context(), p, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID godoc
// @ID           getDebt
// @Summary      Get a debt
// @Tags         debts
// @Produce      json
// @Param        id path string true "Debt ID" format(uuid)
// @Success      200 {object} dto.Response{data=appledger.DebtResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /debts/{id} [get]
func (h *DebtHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	debt, err := h.debtService.GetByID(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, debt)
}

// List godoc
// @ID           listDebts
// @Summary      List debts
// @Description  Page through the caller's debts. overdue keeps unpaid debts past their due date.
// @Tags         debts
// @Produce      json
// @Param        filter    query string false "all or overdue" Enums(all, overdue)
// @Param        client_id query string false "Only debts of this client" format(uuid)
// @Param        page      query int    false "Page number" minimum(1)
// @Param        page_size query int    false "Page size" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]appledger.DebtResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /debts [get]
func (h *DebtHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	input, ok := h.bindListInput(c)
	if !ok {
		return
	}

	page, err := h.debtService.List(c.Request.Context(), p, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Export godoc
// @ID           exportDebts
// @Summary      Export debts as CSV
// @Description  Stream every matching debt as CSV. Paging parameters are ignored.
// @Tags         debts
// @Produce      text/csv
// @Param        filter    query string false "all or overdue" Enums(all, overdue)
// @Param        client_id query string false "Only debts of this client" format(uuid)
// @Success      200 {string} string "CSV document"
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /debts/export [get]
func (h *DebtHandler) Export(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	input, ok := h.bindListInput(c)
	if !ok {
		return
	}

	next, stop := iter.Pull2(h.debtService.Stream(c.Request.Context(), p, input))
	defer stop()

	// Errors before the first row can still be answered with a status.
	first, err, more := next()
	if more && err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Type", appledger.CSVContentType)
	c.Header("Content-Disposition", `attachment; filename="debts.csv"`)
	c.Status(http.StatusOK)

	rows := func(yield func(appledger.DebtResponse, error) bool) {
		for row, err, more := first, err, more; more; row, err, more = next() {
			if !yield(row, err) {
				return
			}
		}
	}
	if written, err := appledger.WriteDebtsCSV(c.Writer, rows); err != nil {
		// Headers are out; all that is left is to cut the stream short.
		logger.GetGinLogger(c).Error("debt export aborted", zap.Error(err), zap.Int("rows", written))
		_ = c.Error(err)
	}
}

// ListPayments godoc
// @ID           listDebtPayments
// @Summary      List payments of a debt
// @Tags         debts
// @Produce      json
// @Param        id path string true "Debt ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]appledger.PaymentResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /debts/{id}/payments [get]
func (h *DebtHandler) ListPayments(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payments, err := h.debtService.Payments(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payments)
}

// ApplyPayment godoc
// @ID           applyDebtPayment
// @Summary      Pay a debt
// @Description  Record a payment against the debt in the path
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        id              path   string                  true  "Debt ID" format(uuid)
// @Param        Idempotency-Key header string                  false "Replay protection key"
// @Param        request         body   dto.ApplyPaymentRequest true  "Payment"
// @Success      201 {object} dto.Response{data=appledger.PaymentResultResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /debts/{id}/payments [post]
func (h *DebtHandler) ApplyPayment(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.paymentService.Apply(c.Request.Context(), p, appledger.ApplyPaymentInput{
		DebtID:         id,
		Amount:         req.Amount,
		IdempotencyKey: c.GetHeader(middleware.IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

func (h *BaseHandler) bindListInput(c *gin.Context) (appledger.ListDebtsInput, bool) {
	var req dto.ListDebtsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindError(c, err)
		return appledger.ListDebtsInput{}, false
	}

	input := appledger.ListDebtsInput{
		Filter:   req.Filter,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.ClientID != "" {
		clientID := uuid.MustParse(req.ClientID)
		input.ClientID = &clientID
	}
	return input, true
}

