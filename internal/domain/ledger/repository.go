package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository persists clients. Lookups by company return
// shared.ErrNotFound for clients of other companies.
type ClientRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Client, error)
	// FindByIDForUpdate loads the client and holds a row lock until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*Client, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Client, int64, error)
	ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error)
	ExistsByPhone(ctx context.Context, companyID uuid.UUID, phone string) (bool, error)
	Create(ctx context.Context, client *Client) error
	// Save updates an existing client, checking its version
	Save(ctx context.Context, client *Client) error
}

// DebtRepository persists debts. Company scoping goes through the owning
// client.
type DebtRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Debt, error)
	// FindByIDForUpdate loads the debt and holds a row lock until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*Debt, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter DebtFilter) ([]Debt, int64, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Debt, error)
	Create(ctx context.Context, debt *Debt) error
	// Save updates an existing debt, checking its version. It never touches
	// the owning client.
	Save(ctx context.Context, debt *Debt) error
}

// PaymentRepository persists payments. Payments are insert-only.
type PaymentRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Payment, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Payment, int64, error)
	FindByDebt(ctx context.Context, debtID uuid.UUID) ([]Payment, error)
	Create(ctx context.Context, payment *Payment) error
}

// DebtFilterKind selects which debts a listing returns
type DebtFilterKind string

const (
	DebtFilterAll     DebtFilterKind = "all"
	DebtFilterOverdue DebtFilterKind = "overdue"
)

// ParseDebtFilterKind parses the listing filter. Empty means all.
func ParseDebtFilterKind(raw string) (DebtFilterKind, error) {
	switch DebtFilterKind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DebtFilterAll:
		return DebtFilterAll, nil
	case DebtFilterOverdue:
		return DebtFilterOverdue, nil
	default:
		return "", shared.NewValidationError("unknown debt filter: " + raw)
	}
}

// DebtFilter narrows a company's debt listing
type DebtFilter struct {
	shared.Filter
	Kind     DebtFilterKind
	ClientID *uuid.UUID
	// Today is the date overdue debts are compared against
	Today time.Time
}
