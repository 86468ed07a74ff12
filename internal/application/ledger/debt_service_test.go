package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDebtService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("opens debt and charges client in one unit", func(t *testing.T) {
		f := newFixture()
		client := f.newClient(t)
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)

		f.clients.On("FindByIDForUpdate", mock.Anything, f.companyID, client.ID).Return(client, nil)
		f.debts.On("Create", mock.Anything, mock.MatchedBy(func(d *ledger.Debt) bool {
			return d.ClientID == client.ID && d.RemainingAmount.Equal(decimal.NewFromInt(100))
		})).Return(nil)
		f.clients.On("Save", mock.Anything, mock.MatchedBy(func(c *ledger.Client) bool {
			return c.Balance.Equal(decimal.NewFromInt(100))
		})).Return(nil)

		result, err := svc.Create(ctx, f.principal, CreateDebtInput{
			ClientID:    client.ID,
			TotalAmount: decimal.NewFromInt(100),
		})
		require.NoError(t, err)

		assert.True(t, result.Client.Balance.Equal(decimal.NewFromInt(100)))
		assert.True(t, result.Debt.RemainingAmount.Equal(decimal.NewFromInt(100)))
		assert.False(t, result.Debt.IsPaid)
		assert.Equal(t, "OPEN", result.Debt.Status)
		assert.Equal(t, "2026-06-19", result.Debt.DueDate)
		assert.Equal(t, []string{ledger.EventTypeDebtOpened, ledger.EventTypeClientBalanceChanged}, f.publisher.types())
		f.assertExpectations(t)
	})

	t.Run("configured default due days", func(t *testing.T) {
		f := newFixture()
		client := f.newClient(t)
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options(WithDefaultDueDays(10))...)

		f.clients.On("FindByIDForUpdate", mock.Anything, f.companyID, client.ID).Return(client, nil)
		f.debts.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.clients.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.Create(ctx, f.principal, CreateDebtInput{ClientID: client.ID, TotalAmount: decimal.NewFromInt(5)})
		require.NoError(t, err)
		assert.Equal(t, "2026-05-30", result.Debt.DueDate)
	})

	t.Run("negative total writes nothing", func(t *testing.T) {
		f := newFixture()
		client := f.newClient(t)
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)

		f.clients.On("FindByIDForUpdate", mock.Anything, f.companyID, client.ID).Return(client, nil)

		_, err := svc.Create(ctx, f.principal, CreateDebtInput{ClientID: client.ID, TotalAmount: decimal.NewFromInt(-5)})
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, client.Balance.IsZero())
		f.debts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.clients.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.types())
	})

	t.Run("past due date is rejected", func(t *testing.T) {
		f := newFixture()
		client := f.newClient(t)
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)
		f.clients.On("FindByIDForUpdate", mock.Anything, f.companyID, client.ID).Return(client, nil)

		due := fixedNow.AddDate(0, 0, -1)
		_, err := svc.Create(ctx, f.principal, CreateDebtInput{ClientID: client.ID, TotalAmount: decimal.NewFromInt(5), DueDate: &due})
		assert.ErrorIs(t, err, shared.ErrValidation)
		f.debts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("principal without company", func(t *testing.T) {
		f := newFixture()
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)

		_, err := svc.Create(ctx, principalWithoutCompany(), CreateDebtInput{ClientID: uuid.New(), TotalAmount: decimal.NewFromInt(5)})
		assert.ErrorIs(t, err, shared.ErrNoCompany)
		f.clients.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("client outside company is not found", func(t *testing.T) {
		f := newFixture()
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)
		clientID := uuid.New()
		f.clients.On("FindByIDForUpdate", mock.Anything, f.companyID, clientID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, f.principal, CreateDebtInput{ClientID: clientID, TotalAmount: decimal.NewFromInt(5)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("storage failure surfaces and publishes nothing", func(t *testing.T) {
		f := newFixture()
		client := f.newClient(t)
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)
		f.clients.On("FindByIDForUpdate", mock.Anything, f.companyID, client.ID).Return(client, nil)
		f.debts.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.clients.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := svc.Create(ctx, f.principal, CreateDebtInput{ClientID: client.ID, TotalAmount: decimal.NewFromInt(5)})
		assert.EqualError(t, err, "disk full")
		assert.Empty(t, f.publisher.types())
	})
}

func TestDebtService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("overdue filter is passed with today's date", func(t *testing.T) {
		f := newFixture()
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)
		client := f.newClient(t)
		debt, err := ledger.OpenDebt(client, decimal.NewFromInt(10), nil, fixedNow.AddDate(0, 0, -60))
		require.NoError(t, err)

		f.debts.On("FindAllForCompany", mock.Anything, f.companyID, mock.MatchedBy(func(filter ledger.DebtFilter) bool {
			return filter.Kind == ledger.DebtFilterOverdue &&
				filter.Today.Equal(time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)) &&
				filter.Page == 1 && filter.PageSize == 20
		})).Return([]ledger.Debt{*debt}, int64(1), nil)

		page, err := svc.List(ctx, f.principal, ListDebtsInput{Filter: "overdue"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.True(t, page.Items[0].IsOverdue)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("unknown filter is a validation error", func(t *testing.T) {
		f := newFixture()
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)

		_, err := svc.List(ctx, f.principal, ListDebtsInput{Filter: "paid"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("principal without company sees an empty page", func(t *testing.T) {
		f := newFixture()
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)

		page, err := svc.List(ctx, principalWithoutCompany(), ListDebtsInput{})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		f.debts.AssertNotCalled(t, "FindAllForCompany", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDebtService_Sequence(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options(WithListBatchSize(2))...)

	makeDebts := func(n int) []ledger.Debt {
		out := make([]ledger.Debt, n)
		for i := range out {
			out[i] = ledger.Debt{BaseAggregateRoot: shared.NewBaseAggregateRoot(fixedNow)}
		}
		return out
	}
	pages := map[int][]ledger.Debt{1: makeDebts(2), 2: makeDebts(2), 3: makeDebts(1)}
	for n, batch := range pages {
		f.debts.On("FindAllForCompany", mock.Anything, f.companyID, mock.MatchedBy(func(filter ledger.DebtFilter) bool {
			return filter.Page == n && filter.PageSize == 2
		})).Return(batch, int64(5), nil)
	}

	t.Run("walks every batch", func(t *testing.T) {
		count := 0
		for debt, err := range svc.Sequence(ctx, f.principal, ListDebtsInput{}) {
			require.NoError(t, err)
			require.NotNil(t, debt)
			count++
		}
		assert.Equal(t, 5, count)
	})

	t.Run("can be ranged again", func(t *testing.T) {
		seq := svc.Sequence(ctx, f.principal, ListDebtsInput{})
		first, second := 0, 0
		for range seq {
			first++
		}
		for range seq {
			second++
		}
		assert.Equal(t, 5, first)
		assert.Equal(t, first, second)
	})

	t.Run("stops early without fetching more", func(t *testing.T) {
		calls := len(f.debts.Calls)
		for range svc.Sequence(ctx, f.principal, ListDebtsInput{}) {
			break
		}
		assert.Equal(t, calls+1, len(f.debts.Calls))
	})

	t.Run("bad filter is yielded as an error", func(t *testing.T) {
		var errs []error
		for debt, err := range svc.Sequence(ctx, f.principal, ListDebtsInput{Filter: "bogus"}) {
			assert.Nil(t, debt)
			errs = append(errs, err)
		}
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], shared.ErrValidation)
	})

	t.Run("no company yields nothing", func(t *testing.T) {
		for range svc.Sequence(ctx, principalWithoutCompany(), ListDebtsInput{}) {
			t.Fatal("expected an empty sequence")
		}
	})

	t.Run("stream renders responses", func(t *testing.T) {
		var rows []DebtResponse
		for row, err := range svc.Stream(ctx, f.principal, ListDebtsInput{}) {
			require.NoError(t, err)
			rows = append(rows, row)
		}
		assert.Len(t, rows, 5)
	})

	t.Run("stream yields the sequence error", func(t *testing.T) {
		var errs []error
		for row, err := range svc.Stream(ctx, f.principal, ListDebtsInput{Filter: "bogus"}) {
			assert.Zero(t, row)
			errs = append(errs, err)
		}
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], shared.ErrValidation)
	})
}

func TestDebtService_Payments(t *testing.T) {
	ctx := context.Background()

	t.Run("lists payments of an own debt", func(t *testing.T) {
		f := newFixture()
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)
		debtID := uuid.New()
		f.debts.On("FindByIDForCompany", mock.Anything, f.companyID, debtID).Return(&ledger.Debt{}, nil)
		f.payments.On("FindByDebt", mock.Anything, debtID).Return([]ledger.Payment{
			{DebtID: debtID, Amount: decimal.NewFromInt(3)},
		}, nil)

		payments, err := svc.Payments(ctx, f.principal, debtID)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(3)))
	})

	t.Run("foreign debt is not found", func(t *testing.T) {
		f := newFixture()
		svc := NewDebtService(f.debts, f.payments, f.txScope, f.guard, f.options()...)
		debtID := uuid.New()
		f.debts.On("FindByIDForCompany", mock.Anything, f.companyID, debtID).Return(nil, shared.ErrNotFound)

		_, err := svc.Payments(ctx, f.principal, debtID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.payments.AssertNotCalled(t, "FindByDebt", mock.Anything, mock.Anything)
	})
}
