package persistence

import (
	"context"
	"testing"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPaymentRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	user := uuid.New()

	client := seedClient(t, db, companyID, "Ali", "+998901111111")
	debt := seedDebt(t, db, client, "100", testNow)

	var created []*ledger.Payment
	for _, amount := range []string{"10", "20.50", "30"} {
		payment, err := ledger.ApplyPayment(debt, client, dec(amount), user, testNow)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, payment))
		created = append(created, payment)
	}

	t.Run("find by id in company", func(t *testing.T) {
		found, err := repo.FindByIDForCompany(ctx, companyID, created[1].ID)
		require.NoError(t, err)
		assert.True(t, found.Amount.Equal(dec("20.50")))
		assert.Equal(t, user, found.RecordedBy)
		assert.Equal(t, debt.ID, found.DebtID)
	})

	t.Run("other company gets not found", func(t *testing.T) {
		_, err := repo.FindByIDForCompany(ctx, uuid.New(), created[0].ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("by debt", func(t *testing.T) {
		payments, err := repo.FindByDebt(ctx, debt.ID)
		require.NoError(t, err)
		assert.Len(t, payments, 3)
	})

	t.Run("all for company", func(t *testing.T) {
		payments, total, err := repo.FindAllForCompany(ctx, companyID, shared.Filter{PageSize: 2, OrderBy: "amount", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, payments, 2)
		assert.True(t, payments[0].Amount.Equal(dec("10")))
		assert.True(t, payments[1].Amount.Equal(dec("20.5")))

		payments, total, err = repo.FindAllForCompany(ctx, uuid.New(), shared.Filter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, payments)
	})
}
