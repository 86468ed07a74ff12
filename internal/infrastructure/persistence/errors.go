package persistence

import (
	"errors"
	"strings"

	"github.com/debtbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors onto domain errors. Anything
// unrecognized is returned as is.
func translateError(err error, duplicateMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return shared.NewDomainError(shared.CodeAlreadyExists, duplicateMsg)
	default:
		return err
	}
}

// isUniqueViolation catches unique violations the dialector did not
// translate, e.g. when TranslateError is off.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func conflictError(entity string) error {
	return shared.NewDomainError(shared.CodeConcurrencyConflict, entity+" was modified by another transaction")
}
