package shared

import (
	"errors"
	"fmt"
	"time"
)

// Error codes shared across bounded contexts
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeLockTimeout    = "LOCK_TIMEOUT"
	CodeInvalidState   = "INVALID_STATE"
	CodeOptimisticLock = "OPTIMISTIC_LOCK_ERROR"
)

// CodedError is implemented by errors that carry a stable, machine-readable code.
// The HTTP layer maps codes to status codes; the domain never deals with transport.
type CodedError interface {
	error
	ErrorCode() string
}

// DetailedError is implemented by errors that expose structured context
// (ids, amounts) so callers can decide whether to retry, reject or alert.
type DetailedError interface {
	error
	ErrorDetails() map[string]any
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// ErrorCode returns the domain error code
func (e *DomainError) ErrorCode() string {
	return e.Code
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
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

// Common domain errors
var (
	ErrNotFound     = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState = NewDomainError(CodeInvalidState, "Operation not allowed in current state")

	// ErrConcurrentModification is returned when a versioned write finds the
	// row changed since it was read
	ErrConcurrentModification = NewDomainError(CodeOptimisticLock, "The record has been modified by another transaction")
)

// ValidationError reports malformed input. It is always raised before any I/O.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a validation error for the given field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ErrorCode implements CodedError
func (e *ValidationError) ErrorCode() string {
	return CodeValidation
}

// ErrorDetails implements DetailedError
func (e *ValidationError) ErrorDetails() map[string]any {
	return map[string]any{"field": e.Field, "reason": e.Reason}
}

// LockTimeoutError is returned when a lock could not be acquired within the
// configured wait time. The guarded operation was never invoked, so the
// caller may safely retry.
type LockTimeoutError struct {
	Key  string
	Wait time.Duration
	Err  error
}

func (e *LockTimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lock %q not acquired within %s: %v", e.Key, e.Wait, e.Err)
	}
	return fmt.Sprintf("lock %q not acquired within %s", e.Key, e.Wait)
}

// Unwrap returns the underlying cause (context error or backend error)
func (e *LockTimeoutError) Unwrap() error {
	return e.Err
}

// ErrorCode implements CodedError
func (e *LockTimeoutError) ErrorCode() string {
	return CodeLockTimeout
}

// ErrorDetails implements DetailedError
func (e *LockTimeoutError) ErrorDetails() map[string]any {
	return map[string]any{"lock_key": e.Key, "wait": e.Wait.String(), "retryable": true}
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsLockTimeout reports whether err is (or wraps) a LockTimeoutError
func IsLockTimeout(err error) bool {
	var l *LockTimeoutError
	return errors.As(err, &l)
}
