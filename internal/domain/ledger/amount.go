package ledger

import (
	"time"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Amounts are stored as decimal(10,2).
const (
	AmountScale        = 2
	amountIntegerDigit = 8
)

// DefaultDueDays is how far ahead a debt falls due when no date is given.
const DefaultDueDays = 30

var maxAmount = decimal.New(1, amountIntegerDigit)

// validateAmount rejects values that would not fit the storage column.
func validateAmount(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(AmountScale)) {
		return shared.NewValidationError(field + " cannot have more than 2 decimal places")
	}
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return shared.NewValidationError(field + " is too large")
	}
	return nil
}

// DateOf returns the calendar date of t as midnight UTC. The year, month
// and day are read in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
