package ledger

import (
	"time"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an immutable amount applied against a debt
type Payment struct {
	shared.BaseEntity
	DebtID     uuid.UUID
	Amount     decimal.Decimal
	RecordedBy uuid.UUID
}

// ApplyPayment takes amount off debt and off the owning client's balance and
// returns the payment to persist. All checks run before anything is changed,
// so a rejected payment leaves debt and client exactly as they were.
func ApplyPayment(debt *Debt, client *Client, amount decimal.Decimal, recordedBy uuid.UUID, now time.Time) (*Payment, error) {
	if debt == nil || client == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "payment requires a debt and its client")
	}
	if debt.ClientID != client.ID {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "debt does not belong to client")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewValidationError("payment must be recorded by a user")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be positive")
	}
	if err := validateAmount("payment amount", amount); err != nil {
		return nil, err
	}
	if amount.GreaterThan(debt.RemainingAmount) {
		return nil, shared.ErrInsufficientRemaining
	}

	payment := &Payment{
		BaseEntity: shared.NewBaseEntity(now),
		DebtID:     debt.ID,
		Amount:     amount,
		RecordedBy: recordedBy,
	}

	debt.reduce(amount, now)
	client.credit(amount, BalanceReasonPaymentApplied, now)

	debt.AddDomainEvent(NewPaymentAppliedEvent(debt, client.CompanyID, payment, now))
	if debt.IsPaid {
		debt.AddDomainEvent(NewDebtSettledEvent(debt, client.CompanyID, now))
	}
	return payment, nil
}
