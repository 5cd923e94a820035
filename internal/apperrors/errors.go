package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("operation conflicts with current resource state")

// ErrInternal indicates an unexpected internal failure (storage, serialization, etc.).
var ErrInternal = errors.New("internal error")

// Invariant-violation errors. Deterministic business rejections, never
// retried; each one maps to a specific user-facing explanation.
var (
	// ErrPeriodClosed is returned when a write targets a transaction whose
	// owning financial period is closed.
	ErrPeriodClosed = errors.New("financial period is closed")

	// ErrPeriodOverlap is returned when a proposed period's date interval
	// intersects an existing period.
	ErrPeriodOverlap = errors.New("financial period overlaps an existing period")

	// ErrPeriodAlreadyOpen is returned when opening a period while another
	// period already has open status.
	ErrPeriodAlreadyOpen = errors.New("another financial period is already open")

	// ErrUnbalancedEntries is returned when a transaction's journal entries
	// do not balance (sum of debits != sum of credits).
	ErrUnbalancedEntries = errors.New("journal entries do not balance")

	// ErrSessionClosed is returned when mutating a register session that is
	// no longer open.
	ErrSessionClosed = errors.New("register session is already closed")

	// ErrAlreadyResolved is returned when resolving a discrepancy that has
	// already reached a terminal resolution state.
	ErrAlreadyResolved = errors.New("register session discrepancy is already resolved")
)

// AppError wraps a lower-level error with an HTTP-ish code and a message
// suitable for logging. Business rejections use the sentinel errors above;
// AppError is for storage and other infrastructure failures, which callers
// may retry.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
