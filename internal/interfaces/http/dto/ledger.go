package dto

import "github.com/shopspring/decimal"

// CreateClientRequest is the body of POST /clients
type CreateClientRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	Phone string `json:"phone" binding:"required,min=1,max=20"`
}

// CreateDebtRequest is the body of POST /debts. TotalAmount must be present;
// an explicit zero opens a debt that is already paid. DueDate uses the
// YYYY-MM-DD layout; when omitted the configured default applies.
type CreateDebtRequest struct {
	ClientID    string           `json:"client_id" binding:"required,uuid"`
	TotalAmount *decimal.Decimal `json:"total_amount" binding:"required,decimal_gte0"`
	DueDate     string           `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

// ApplyPaymentRequest is the body of POST /payments. DebtID is ignored on
// POST /debts/:id/payments, where the path names the debt.
type ApplyPaymentRequest struct {
	DebtID string          `json:"debt_id" binding:"omitempty,uuid"`
	Amount decimal.Decimal `json:"amount" binding:"decimal_gt0"`
}

// ListDebtsRequest holds the query parameters of GET /debts
type ListDebtsRequest struct {
	Filter   string `form:"filter" binding:"omitempty,oneof=all overdue"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
