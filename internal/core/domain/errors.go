package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrModuleNotFound = fmt.Errorf("module %w", ErrNotFound)
	ErrRecordNotFound = fmt.Errorf("record %w", ErrNotFound)
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)

	ErrForbidden         = errors.New("access forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDuplicateRequest  = errors.New("request already processed")

	// ErrStorage wraps failures of the backing store.
	ErrStorage = errors.New("storage failure")
	// ErrQueryTimeout is returned when a query exceeds its execution budget.
	// It is transient; the caller may retry.
	ErrQueryTimeout = errors.New("query timed out")
)

// Validation codes.
const (
	CodeUnknownColumn   = "UNKNOWN_COLUMN"
	CodeColumnsRequired = "COLUMNS_REQUIRED"
	CodeModuleRequired  = "MODULE_REQUIRED"
	CodeInvalidID       = "INVALID_ID"
	CodeParentRequired  = "PARENT_REQUIRED"
	CodeInvalidSort     = "INVALID_SORT"
	CodeInvalidFilter   = "INVALID_FILTER"
	CodeInvalidAmount   = "INVALID_AMOUNT"
	CodeInvalidAction   = "INVALID_ACTION"
	CodeInvalidPeriod   = "INVALID_PERIOD"
	CodeInvalidEntity   = "INVALID_ENTITY"
	CodeInvalidRequest  = "INVALID_REQUEST"
)

// ValidationError reports a malformed or missing request value.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}
