package models

import (
	"time"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyModel mirrors the companies managed by the identity service.
// Clients reference it; the ledger never writes it outside tests and seeds.
type CompanyModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ClientModel is the persistence model for the Client aggregate.
type ClientModel struct {
	AggregateModel
	CompanyID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_clients_company_name,priority:1;uniqueIndex:idx_clients_company_phone,priority:1"`
	CreatedBy *uuid.UUID      `gorm:"type:uuid"`
	Name      string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_clients_company_name,priority:2"`
	Phone     string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_clients_company_phone,priority:2"`
	Balance   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client.
func (m *ClientModel) ToDomain() *ledger.Client {
	return &ledger.Client{
		CompanyAggregateRoot: shared.CompanyAggregateRoot{
			BaseAggregateRoot: m.ToDomainAggregateRoot(),
			CompanyID:         m.CompanyID,
			CreatedBy:         m.CreatedBy,
		},
		Name:    m.Name,
		Phone:   m.Phone,
		Balance: m.Balance,
	}
}

// FromDomain populates the persistence model from a domain Client.
func (m *ClientModel) FromDomain(c *ledger.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CompanyID = c.CompanyID
	m.CreatedBy = c.CreatedBy
	m.Name = c.Name
	m.Phone = c.Phone
	m.Balance = c.Balance
}

// ClientModelFromDomain creates a persistence model from a domain Client.
func ClientModelFromDomain(c *ledger.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// DebtModel is the persistence model for the Debt aggregate. The company
// is reached through the owning client.
type DebtModel struct {
	AggregateModel
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DueDate         time.Time       `gorm:"type:date;not null;index"`
	IsPaid          bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (DebtModel) TableName() string {
	return "debts"
}

// ToDomain converts the persistence model to a domain Debt.
func (m *DebtModel) ToDomain() *ledger.Debt {
	return &ledger.Debt{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClientID:          m.ClientID,
		TotalAmount:       m.TotalAmount,
		RemainingAmount:   m.RemainingAmount,
		DueDate:           ledger.DateOf(m.DueDate),
		IsPaid:            m.IsPaid,
	}
}

// FromDomain populates the persistence model from a domain Debt.
func (m *DebtModel) FromDomain(d *ledger.Debt) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.ClientID = d.ClientID
	m.TotalAmount = d.TotalAmount
	m.RemainingAmount = d.RemainingAmount
	m.DueDate = ledger.DateOf(d.DueDate)
	m.IsPaid = d.IsPaid
}

// DebtModelFromDomain creates a persistence model from a domain Debt.
func DebtModelFromDomain(d *ledger.Debt) *DebtModel {
	m := &DebtModel{}
	m.FromDomain(d)
	return m
}

// PaymentModel is the persistence model for Payment. Rows are insert-only.
type PaymentModel struct {
	BaseModel
	DebtID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RecordedBy uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		BaseEntity: m.BaseModel.ToDomain(),
		DebtID:     m.DebtID,
		Amount:     m.Amount,
		RecordedBy: m.RecordedBy,
	}
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.DebtID = p.DebtID
	m.Amount = p.Amount
	m.RecordedBy = p.RecordedBy
}

// PaymentModelFromDomain creates a persistence model from a domain Payment.
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// AllModels lists the models in dependency order, for AutoMigrate.
func AllModels() []any {
	return []any{
		&CompanyModel{},
		&ClientModel{},
		&DebtModel{},
		&PaymentModel{},
	}
}
