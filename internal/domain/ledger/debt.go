package ledger

import (
	"time"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeClient = "Client"
	AggregateTypeDebt   = "Debt"
)

// DebtStatus is derived from the remaining amount
type DebtStatus string

const (
	DebtStatusOpen DebtStatus = "OPEN"
	DebtStatusPaid DebtStatus = "PAID"
)

// Debt is one obligation of a client.
// Invariants: 0 <= RemainingAmount <= TotalAmount and
// IsPaid == RemainingAmount.IsZero().
type Debt struct {
	shared.BaseAggregateRoot
	ClientID        uuid.UUID
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	DueDate         time.Time
	IsPaid          bool
}

// DebtOption customizes OpenDebt
type DebtOption func(*debtOptions)

type debtOptions struct {
	defaultDueDays int
}

// WithDefaultDueDays overrides how many days ahead an undated debt falls due
func WithDefaultDueDays(days int) DebtOption {
	return func(o *debtOptions) {
		if days > 0 {
			o.defaultDueDays = days
		}
	}
}

// OpenDebt creates a debt for client and charges its total to the client's
// balance. It is the only path that raises a balance: an existing debt is
// never passed through here again, so re-saving it leaves the client alone.
// Nothing is mutated when validation fails.
func OpenDebt(client *Client, total decimal.Decimal, dueDate *time.Time, now time.Time, opts ...DebtOption) (*Debt, error) {
	o := debtOptions{defaultDueDays: DefaultDueDays}
	for _, opt := range opts {
		opt(&o)
	}

	if client == nil || client.ID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "debt requires a client")
	}
	if total.IsNegative() {
		return nil, shared.NewValidationError("negative debt amount")
	}
	if err := validateAmount("total amount", total); err != nil {
		return nil, err
	}

	today := DateOf(now)
	due := today.AddDate(0, 0, o.defaultDueDays)
	if dueDate != nil {
		due = DateOf(*dueDate)
		if !due.After(today) {
			return nil, shared.NewValidationError("due date not in future")
		}
	}

	debt := &Debt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		ClientID:          client.ID,
		TotalAmount:       total,
		RemainingAmount:   total,
		DueDate:           due,
		IsPaid:            total.IsZero(),
	}
	if total.IsPositive() {
		client.charge(total, BalanceReasonDebtOpened, now)
	}

	debt.AddDomainEvent(NewDebtOpenedEvent(debt, client.CompanyID, now))
	if debt.IsPaid {
		debt.AddDomainEvent(NewDebtSettledEvent(debt, client.CompanyID, now))
	}
	return debt, nil
}

// Status returns OPEN while anything remains and PAID once settled
func (d *Debt) Status() DebtStatus {
	if d.IsPaid {
		return DebtStatusPaid
	}
	return DebtStatusOpen
}

// PaidAmount returns how much of the total has been paid off
func (d *Debt) PaidAmount() decimal.Decimal {
	return d.TotalAmount.Sub(d.RemainingAmount)
}

// IsOverdue reports whether the due date is before today's date and the
// debt is still open
func (d *Debt) IsOverdue(now time.Time) bool {
	return !d.IsPaid && DateOf(d.DueDate).Before(DateOf(now))
}

// CheckInvariants verifies the amount bounds and the paid flag
func (d *Debt) CheckInvariants() error {
	if d.RemainingAmount.IsNegative() || d.RemainingAmount.GreaterThan(d.TotalAmount) {
		return shared.NewDomainError(shared.CodeInvalidState, "remaining amount out of bounds")
	}
	if d.IsPaid != d.RemainingAmount.IsZero() {
		return shared.NewDomainError(shared.CodeInvalidState, "paid flag does not match remaining amount")
	}
	return nil
}

// reduce takes amount off the remaining balance. Callers have already
// checked amount against RemainingAmount.
func (d *Debt) reduce(amount decimal.Decimal, now time.Time) {
	d.RemainingAmount = d.RemainingAmount.Sub(amount)
	d.IsPaid = d.RemainingAmount.IsZero()
	d.Touch(now)
	d.IncrementVersion()
}
