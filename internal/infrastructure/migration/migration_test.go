package migration

import (
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/debtbook/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add clients table", "add_clients_table"},
		{"Add-Debt-Index", "add_debt_index"},
		{"add__payments__table", "add_payments_table"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)

	mf, err := CreateMigration(dir, "Add overdue index", "speeds up overdue listing", now)
	require.NoError(t, err)
	assert.Equal(t, "20260520093000", mf.Version)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "speeds up overdue listing")
	assert.FileExists(t, mf.DownPath)

	_, err = CreateMigration(dir, "Add overdue index", "", now)
	assert.Error(t, err, "an existing pair is never overwritten")

	_, err = CreateMigration(dir, "!!!", "", now)
	assert.Error(t, err)
}

func TestPending(t *testing.T) {
	fsys := fstest.MapFS{
		"1_a.up.sql":   {Data: []byte("SELECT 1;")},
		"1_a.down.sql": {Data: []byte("SELECT 1;")},
		"2_b.up.sql":   {Data: []byte("SELECT 1;")},
		"2_b.down.sql": {Data: []byte("SELECT 1;")},
		"3_c.up.sql":   {Data: []byte("SELECT 1;")},
		"3_c.down.sql": {Data: []byte("SELECT 1;")},
	}

	pending, err := Pending(fsys, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, pending)

	pending, err = Pending(fsys, 3)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	pending, err := Pending(migrations.FS, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, pending)
}
