package shared

import "errors"

// Error codes shared across layers. The HTTP layer maps them to status codes.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeValidation            = "VALIDATION_ERROR"
	CodeInsufficientRemaining = "INSUFFICIENT_REMAINING"
	CodeNoCompany             = "NO_COMPANY"
	CodeForbidden             = "FORBIDDEN"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
	CodeDuplicateRequest      = "DUPLICATE_REQUEST"
	CodeInvalidState          = "INVALID_STATE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so callers can test
// errors.Is(err, ErrValidation) against errors built with NewValidationError.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// Common domain errors
var (
	ErrNotFound              = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists         = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrValidation            = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInsufficientRemaining = NewDomainError(CodeInsufficientRemaining, "payment exceeds remaining debt amount")
	ErrNoCompany             = NewDomainError(CodeNoCompany, "no associated company")
	ErrForbidden             = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrUnauthorized          = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrConcurrencyConflict   = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrDuplicateRequest      = NewDomainError(CodeDuplicateRequest, "Request with this idempotency key was already processed")
	ErrInvalidState          = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// IsAuthorizationError reports whether err denies access to the caller.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrNoCompany) || errors.Is(err, ErrForbidden)
}
