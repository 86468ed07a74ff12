package ledger

import (
	"time"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeClientRegistered     = "ClientRegistered"
	EventTypeClientBalanceChanged = "ClientBalanceChanged"
	EventTypeDebtOpened           = "DebtOpened"
	EventTypePaymentApplied       = "PaymentApplied"
	EventTypeDebtSettled          = "DebtSettled"
)

// Balance change reasons
const (
	BalanceReasonDebtOpened     = "debt_opened"
	BalanceReasonPaymentApplied = "payment_applied"
)

// ClientRegisteredEvent is published when a client is created
type ClientRegisteredEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
}

// NewClientRegisteredEvent creates a new ClientRegisteredEvent
func NewClientRegisteredEvent(client *Client, at time.Time) *ClientRegisteredEvent {
	return &ClientRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientRegistered, AggregateTypeClient, client.ID, client.CompanyID, at),
		ClientID:        client.ID,
		Name:            client.Name,
		Phone:           client.Phone,
	}
}

// ClientBalanceChangedEvent is published whenever a client's balance moves
type ClientBalanceChangedEvent struct {
	shared.BaseDomainEvent
	ClientID   uuid.UUID       `json:"client_id"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Reason     string          `json:"reason"`
}

// NewClientBalanceChangedEvent creates a new ClientBalanceChangedEvent
func NewClientBalanceChangedEvent(client *Client, oldBalance, newBalance decimal.Decimal, reason string, at time.Time) *ClientBalanceChangedEvent {
	return &ClientBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientBalanceChanged, AggregateTypeClient, client.ID, client.CompanyID, at),
		ClientID:        client.ID,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
		Reason:          reason,
	}
}

// DebtOpenedEvent is published when a debt is created
type DebtOpenedEvent struct {
	shared.BaseDomainEvent
	DebtID      uuid.UUID       `json:"debt_id"`
	ClientID    uuid.UUID       `json:"client_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DueDate     time.Time       `json:"due_date"`
}

// NewDebtOpenedEvent creates a new DebtOpenedEvent
func NewDebtOpenedEvent(debt *Debt, companyID uuid.UUID, at time.Time) *DebtOpenedEvent {
	return &DebtOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtOpened, AggregateTypeDebt, debt.ID, companyID, at),
		DebtID:          debt.ID,
		ClientID:        debt.ClientID,
		TotalAmount:     debt.TotalAmount,
		DueDate:         debt.DueDate,
	}
}

// PaymentAppliedEvent is published when a payment reduces a debt
type PaymentAppliedEvent struct {
	shared.BaseDomainEvent
	PaymentID       uuid.UUID       `json:"payment_id"`
	DebtID          uuid.UUID       `json:"debt_id"`
	ClientID        uuid.UUID       `json:"client_id"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	RecordedBy      uuid.UUID       `json:"recorded_by"`
}

// NewPaymentAppliedEvent creates a new PaymentAppliedEvent
func NewPaymentAppliedEvent(debt *Debt, companyID uuid.UUID, payment *Payment, at time.Time) *PaymentAppliedEvent {
	return &PaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentApplied, AggregateTypeDebt, debt.ID, companyID, at),
		PaymentID:       payment.ID,
		DebtID:          debt.ID,
		ClientID:        debt.ClientID,
		Amount:          payment.Amount,
		RemainingAmount: debt.RemainingAmount,
		RecordedBy:      payment.RecordedBy,
	}
}

// DebtSettledEvent is published when a debt reaches PAID
type DebtSettledEvent struct {
	shared.BaseDomainEvent
	DebtID      uuid.UUID       `json:"debt_id"`
	ClientID    uuid.UUID       `json:"client_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewDebtSettledEvent creates a new DebtSettledEvent
func NewDebtSettledEvent(debt *Debt, companyID uuid.UUID, at time.Time) *DebtSettledEvent {
	return &DebtSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtSettled, AggregateTypeDebt, debt.ID, companyID, at),
		DebtID:          debt.ID,
		ClientID:        debt.ClientID,
		TotalAmount:     debt.TotalAmount,
	}
}
