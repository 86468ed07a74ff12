package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockClientRepository is a mock implementation of ledger.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Client, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*ledger.Client, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]ledger.Client, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]ledger.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, companyID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) ExistsByPhone(ctx context.Context, companyID uuid.UUID, phone string) (bool, error) {
	args := m.Called(ctx, companyID, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, client *ledger.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Save(ctx context.Context, client *ledger.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// MockDebtRepository is a mock implementation of ledger.DebtRepository
type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Debt, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*ledger.Debt, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.DebtFilter) ([]ledger.Debt, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]ledger.Debt), args.Get(1).(int64), args.Error(2)
}

func (m *MockDebtRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]ledger.Debt, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]ledger.Debt), args.Error(1)
}

func (m *MockDebtRepository) Create(ctx context.Context, debt *ledger.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) Save(ctx context.Context, debt *ledger.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of ledger.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Payment, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]ledger.Payment, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]ledger.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) FindByDebt(ctx context.Context, debtID uuid.UUID) ([]ledger.Payment, error) {
	args := m.Called(ctx, debtID)
	return args.Get(0).([]ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *ledger.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// =============================================================================
// Fixtures
// =============================================================================

var fixedNow = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fixture struct {
	companyID uuid.UUID
	principal identity.Principal
	clients   *MockClientRepository
	debts     *MockDebtRepository
	payments  *MockPaymentRepository
	txScope   *NoOpTransactionScope
	guard     *AccessScopeGuard
	publisher *recordingPublisher
}

func newFixture() *fixture {
	companyID := uuid.New()
	f := &fixture{
		companyID: companyID,
		principal: identity.NewPrincipal(uuid.New(), "seller1", &companyID, identity.RoleSeller),
		clients:   new(MockClientRepository),
		debts:     new(MockDebtRepository),
		payments:  new(MockPaymentRepository),
		guard:     NewAccessScopeGuard(),
		publisher: &recordingPublisher{},
	}
	f.txScope = NewNoOpTransactionScope(f.clients, f.debts, f.payments)
	return f
}

func (f *fixture) options(extra ...Option) []Option {
	return append([]Option{WithClock(fixedClock), WithEventPublisher(f.publisher)}, extra...)
}

func (f *fixture) newClient(t *testing.T) *ledger.Client {
	t.Helper()
	client, err := ledger.NewClient(f.companyID, "Client "+uuid.NewString()[:8], uuid.NewString()[:12], fixedNow)
	require.NoError(t, err)
	client.ClearDomainEvents()
	return client
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.clients.AssertExpectations(t)
	f.debts.AssertExpectations(t)
	f.payments.AssertExpectations(t)
}

func principalWithoutCompany() identity.Principal {
	return identity.NewPrincipal(uuid.New(), "drifter", nil, identity.RoleSeller)
}
