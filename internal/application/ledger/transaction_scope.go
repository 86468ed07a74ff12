package ledger

import (
	"context"

	"github.com/debtbook/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the ledger repositories.
// Everything done through the repositories handed to fn is committed or
// rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one
// transaction.
type TransactionalRepositories interface {
	Clients() ledger.ClientRepository
	Debts() ledger.DebtRepository
	Payments() ledger.PaymentRepository
}

// NoOpTransactionScope runs fn against plain repositories without a
// transaction. Useful in unit tests.
type NoOpTransactionScope struct {
	clients  ledger.ClientRepository
	debts    ledger.DebtRepository
	payments ledger.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	clients ledger.ClientRepository,
	debts ledger.DebtRepository,
	payments ledger.PaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		clients:  clients,
		debts:    debts,
		payments: payments,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Clients returns the client repository.
func (s *NoOpTransactionScope) Clients() ledger.ClientRepository {
	return s.clients
}

// Debts returns the debt repository.
func (s *NoOpTransactionScope) Debts() ledger.DebtRepository {
	return s.debts
}

// Payments returns the payment repository.
func (s *NoOpTransactionScope) Payments() ledger.PaymentRepository {
	return s.payments
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
