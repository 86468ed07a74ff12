package dto

import (
	"net/http"
	"strings"

	"github.com/debtbook/backend/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeRequestTooLarge is returned for bodies over the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Authentication and scope error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	// ErrCodeNoCompany is returned when the caller is not bound to a company
	ErrCodeNoCompany = "ERR_NO_COMPANY"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeDuplicateRequest is returned when an idempotency key is reused
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInsufficientRemaining is returned when a payment exceeds what is
	// left on a debt
	ErrCodeInsufficientRemaining = "ERR_INSUFFICIENT_REMAINING"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNoCompany:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	ErrCodeInsufficientRemaining: http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes to wire codes
var domainCodeMapping = map[string]string{
	shared.CodeNotFound:              ErrCodeNotFound,
	shared.CodeAlreadyExists:         ErrCodeAlreadyExists,
	shared.CodeValidation:            ErrCodeValidation,
	shared.CodeInsufficientRemaining: ErrCodeInsufficientRemaining,
	shared.CodeNoCompany:             ErrCodeNoCompany,
	shared.CodeForbidden:             ErrCodeForbidden,
	shared.CodeUnauthorized:          ErrCodeUnauthorized,
	shared.CodeConcurrencyConflict:   ErrCodeConcurrencyConflict,
	shared.CodeDuplicateRequest:      ErrCodeDuplicateRequest,
	shared.CodeInvalidState:          ErrCodeInvalidState,
	"INTERNAL_ERROR":                 ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its ERR_ wire form.
// Codes already in wire form are returned unchanged; anything unrecognised
// gets the ERR_ prefix.
func NormalizeErrorCode(code string) string {
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	return "ERR_" + code
}
