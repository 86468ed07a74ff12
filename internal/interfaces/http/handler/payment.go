package handler

import (
	"net/http"

	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/debtbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *appledger.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *appledger.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Apply godoc
// @ID           applyPayment
// @Summary      Apply a payment
// @Description  Record a payment against a debt. The debt and the client balance shrink by the amount in one transaction.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string                  false "Replay protection key"
// @Param        request         body   dto.ApplyPaymentRequest true  "Payment"
// @Success      201 {object} dto.Response{data=appledger.PaymentResultResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Apply(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}
	if req.DebtID == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "debt_id is required")
		return
	}

	result, err := h.paymentService.Apply(c.Request.Context(), p, appledger.ApplyPaymentInput{
		DebtID:         uuid.MustParse(req.DebtID),
		Amount:         req.Amount,
		IdempotencyKey: c.GetHeader(middleware.IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID godoc
// @ID           getPayment
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=appledger.PaymentResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// List godoc
// @ID           listPayments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        page      query int false "Page number" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]appledger.PaymentResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	page, err := h.paymentService.List(c.Request.Context(), p, toFilter(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
