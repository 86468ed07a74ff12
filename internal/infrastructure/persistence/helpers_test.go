package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

// newTestDB opens a private in-memory SQLite database with the ledger schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate())
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedClient(t *testing.T, db *gorm.DB, companyID uuid.UUID, name, phone string) *ledger.Client {
	t.Helper()
	client, err := ledger.NewClient(companyID, name, phone, testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormClientRepository(db).Create(context.Background(), client))
	return client
}

// seedDebt opens a debt as of now and stores it together with the charged
// client, the same way the debt service does
func seedDebt(t *testing.T, db *gorm.DB, client *ledger.Client, total string, now time.Time) *ledger.Debt {
	t.Helper()
	ctx := context.Background()
	debt, err := ledger.OpenDebt(client, dec(total), nil, now)
	require.NoError(t, err)
	require.NoError(t, NewGormDebtRepository(db).Create(ctx, debt))
	require.NoError(t, NewGormClientRepository(db).Save(ctx, client))
	return debt
}

func seedClientInMemory(t *testing.T, companyID uuid.UUID) *ledger.Client {
	t.Helper()
	client, err := ledger.NewClient(companyID, "Ali", "+998901111111", testNow)
	require.NoError(t, err)
	client.MarkPersisted()
	return client
}

func openDebtInMemory(client *ledger.Client, total string) (*ledger.Debt, error) {
	return ledger.OpenDebt(client, dec(total), nil, testNow)
}
