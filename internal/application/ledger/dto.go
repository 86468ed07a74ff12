package ledger

import (
	"time"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of due dates
const DateLayout = "2006-01-02"

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientInput carries the fields of a new client
type CreateClientInput struct {
	Name  string
	Phone string
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID       `json:"id"`
	CompanyID uuid.UUID       `json:"company_id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(c *ledger.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Phone:     c.Phone,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ClientDebtsResponse is a client together with all of its debts
type ClientDebtsResponse struct {
	Client ClientResponse `json:"client"`
	Debts  []DebtResponse `json:"debts"`
}

// =============================================================================
// Debt DTOs
// =============================================================================

// CreateDebtInput carries the fields of a new debt
type CreateDebtInput struct {
	ClientID    uuid.UUID
	TotalAmount decimal.Decimal
	DueDate     *time.Time
}

// ListDebtsInput selects a page of a company's debts
type ListDebtsInput struct {
	Filter   string
	ClientID *uuid.UUID
	Page     int
	PageSize int
}

// DebtResponse represents a debt in API responses
type DebtResponse struct {
	ID              uuid.UUID       `json:"id"`
	ClientID        uuid.UUID       `json:"client_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	DueDate         string          `json:"due_date"`
	IsPaid          bool            `json:"is_paid"`
	IsOverdue       bool            `json:"is_overdue"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToDebtResponse converts a domain debt to a response. now decides overdue.
func ToDebtResponse(d *ledger.Debt, now time.Time) DebtResponse {
	return DebtResponse{
		ID:              d.ID,
		ClientID:        d.ClientID,
		TotalAmount:     d.TotalAmount,
		RemainingAmount: d.RemainingAmount,
		PaidAmount:      d.PaidAmount(),
		DueDate:         d.DueDate.Format(DateLayout),
		IsPaid:          d.IsPaid,
		IsOverdue:       d.IsOverdue(now),
		Status:          string(d.Status()),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToDebtResponses converts a slice of debts
func ToDebtResponses(debts []ledger.Debt, now time.Time) []DebtResponse {
	out := make([]DebtResponse, len(debts))
	for i := range debts {
		out[i] = ToDebtResponse(&debts[i], now)
	}
	return out
}

// DebtResultResponse is returned by debt creation: the new debt and the
// client's updated balance
type DebtResultResponse struct {
	Debt   DebtResponse   `json:"debt"`
	Client ClientResponse `json:"client"`
}

// =============================================================================
// Payment DTOs
// =============================================================================

// ApplyPaymentInput carries a payment request. The recording user always
// comes from the principal.
type ApplyPaymentInput struct {
	DebtID         uuid.UUID
	Amount         decimal.Decimal
	IdempotencyKey string
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	DebtID     uuid.UUID       `json:"debt_id"`
	Amount     decimal.Decimal `json:"amount"`
	RecordedBy uuid.UUID       `json:"recorded_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a domain payment to a response
func ToPaymentResponse(p *ledger.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		DebtID:     p.DebtID,
		Amount:     p.Amount,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of payments
func ToPaymentResponses(payments []ledger.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out
}

// PaymentResultResponse is returned by payment application: the payment and
// the debt and client state it produced
type PaymentResultResponse struct {
	Payment PaymentResponse `json:"payment"`
	Debt    DebtResponse    `json:"debt"`
	Client  ClientResponse  `json:"client"`
}
