package persistence

import (
	"context"

	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/debtbook/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Repositories handed to the callback share one transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. It commits when fn
// returns nil and rolls back otherwise.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Clients() ledger.ClientRepository {
	return NewGormClientRepository(r.tx)
}

func (r *gormTransactionalRepositories) Debts() ledger.DebtRepository {
	return NewGormDebtRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payments() ledger.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

var _ appledger.TransactionScope = (*GormTransactionScope)(nil)
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
