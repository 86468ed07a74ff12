package ledger

import (
	"context"
	"testing"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("registers client in caller company", func(t *testing.T) {
		f := newFixture()
		svc := NewClientService(f.clients, f.debts, f.txScope, f.guard, f.options()...)
		f.clients.On("ExistsByName", mock.Anything, f.companyID, "Corner Shop").Return(false, nil)
		f.clients.On("ExistsByPhone", mock.Anything, f.companyID, "555-0101").Return(false, nil)
		f.clients.On("Create", mock.Anything, mock.MatchedBy(func(c *ledger.Client) bool {
			return c.CompanyID == f.companyID && *c.CreatedBy == f.principal.UserID
		})).Return(nil)

		resp, err := svc.Create(ctx, f.principal, CreateClientInput{Name: " Corner Shop ", Phone: "555-0101"})
		require.NoError(t, err)
		assert.Equal(t, "Corner Shop", resp.Name)
		assert.Equal(t, f.companyID, resp.CompanyID)
		assert.True(t, resp.Balance.IsZero())
		assert.Equal(t, []string{ledger.EventTypeClientRegistered}, f.publisher.types())
		f.assertExpectations(t)
	})

	t.Run("duplicate name in company", func(t *testing.T) {
		f := newFixture()
		svc := NewClientService(f.clients, f.debts, f.txScope, f.guard, f.options()...)
		f.clients.On("ExistsByName", mock.Anything, f.companyID, "Corner Shop").Return(true, nil)

		_, err := svc.Create(ctx, f.principal, CreateClientInput{Name: "Corner Shop", Phone: "1"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate phone in company", func(t *testing.T) {
		f := newFixture()
		svc := NewClientService(f.clients, f.debts, f.txScope, f.guard, f.options()...)
		f.clients.On("ExistsByName", mock.Anything, f.companyID, "A").Return(false, nil)
		f.clients.On("ExistsByPhone", mock.Anything, f.companyID, "1").Return(true, nil)

		_, err := svc.Create(ctx, f.principal, CreateClientInput{Name: "A", Phone: "1"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("no associated company", func(t *testing.T) {
		f := newFixture()
		svc := NewClientService(f.clients, f.debts, f.txScope, f.guard, f.options()...)

		_, err := svc.Create(ctx, principalWithoutCompany(), CreateClientInput{Name: "A", Phone: "1"})
		assert.ErrorIs(t, err, shared.ErrNoCompany)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture()
		svc := NewClientService(f.clients, f.debts, f.txScope, f.guard, f.options()...)

		_, err := svc.Create(ctx, f.principal, CreateClientInput{Name: "", Phone: "1"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestClientService_GetWithDebts(t *testing.T) {
	ctx := context.Background()

	t.Run("returns client and debts", func(t *testing.T) {
		f := newFixture()
		svc := NewClientService(f.clients, f.debts, f.txScope, f.guard, f.options()...)
		client := f.newClient(t)
		debt, err := ledger.OpenDebt(client, decimal.NewFromInt(12), nil, fixedNow)
		require.NoError(t, err)

		f.clients.On("FindByIDForUpdate", mock.Anything, f.companyID, client.ID).Return(client, nil)
		f.debts.On("FindByClient", mock.Anything, client.ID).Return([]ledger.Debt{*debt}, nil)

		resp, err := svc.GetWithDebts(ctx, f.principal, client.ID)
		require.NoError(t, err)
		f.clients.AssertNotCalled(t, "FindByIDForCompany", mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, client.ID, resp.Client.ID)
		require.Len(t, resp.Debts, 1)
		assert.True(t, resp.Debts[0].TotalAmount.Equal(decimal.NewFromInt(12)))
	})

	t.Run("foreign client is not found", func(t *testing.T) {
		f := newFixture()
		svc := NewClientService(f.clients, f.debts, f.txScope, f.guard, f.options()...)
		id := uuid.New()
		f.clients.On("FindByIDForUpdate", mock.Anything, f.companyID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetWithDebts(ctx, f.principal, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.debts.AssertNotCalled(t, "FindByClient", mock.Anything, mock.Anything)
	})

	t.Run("no company cannot see any client", func(t *testing.T) {
		f := newFixture()
		svc := NewClientService(f.clients, f.debts, f.txScope, f.guard, f.options()...)

		_, err := svc.GetWithDebts(ctx, principalWithoutCompany(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestClientService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := NewClientService(f.clients, f.debts, f.txScope, f.guard, f.options()...)
	client := f.newClient(t)

	f.clients.On("FindAllForCompany", mock.Anything, f.companyID, shared.Filter{Page: 1, PageSize: 20}).
		Return([]ledger.Client{*client}, int64(1), nil)

	page, err := svc.List(ctx, f.principal, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, client.Name, page.Items[0].Name)

	empty, err := svc.List(ctx, principalWithoutCompany(), shared.Filter{})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}
