package ledger

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is a customer of a company who can owe debts.
// Balance is the sum of the remaining amounts of all the client's debts and
// only moves through OpenDebt and ApplyPayment.
type Client struct {
	shared.CompanyAggregateRoot
	Name    string
	Phone   string
	Balance decimal.Decimal
}

// NewClient creates a new client with a zero balance
func NewClient(companyID uuid.UUID, name, phone string, now time.Time) (*Client, error) {
	if companyID == uuid.Nil {
		return nil, shared.ErrNoCompany
	}
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateClientPhone(phone); err != nil {
		return nil, err
	}

	client := &Client{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID, now),
		Name:                 name,
		Phone:                phone,
		Balance:              decimal.Zero,
	}
	client.AddDomainEvent(NewClientRegisteredEvent(client, now))
	return client, nil
}

func validateClientName(name string) error {
	if name == "" {
		return shared.NewValidationError("client name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 255 {
		return shared.NewValidationError("client name cannot exceed 255 characters")
	}
	return nil
}

func validateClientPhone(phone string) error {
	if phone == "" {
		return shared.NewValidationError("client phone cannot be empty")
	}
	if utf8.RuneCountInString(phone) > 20 {
		return shared.NewValidationError("client phone cannot exceed 20 characters")
	}
	return nil
}

// charge raises the balance when a new debt is opened
func (c *Client) charge(amount decimal.Decimal, reason string, now time.Time) {
	c.moveBalance(c.Balance.Add(amount), reason, now)
}

// credit lowers the balance when a payment is applied
func (c *Client) credit(amount decimal.Decimal, reason string, now time.Time) {
	c.moveBalance(c.Balance.Sub(amount), reason, now)
}

func (c *Client) moveBalance(newBalance decimal.Decimal, reason string, now time.Time) {
	oldBalance := c.Balance
	c.Balance = newBalance
	c.Touch(now)
	c.IncrementVersion()
	c.AddDomainEvent(NewClientBalanceChangedEvent(c, oldBalance, newBalance, reason, now))
}

// HasOutstandingBalance reports whether the client still owes anything
func (c *Client) HasOutstandingBalance() bool {
	return c.Balance.IsPositive()
}
