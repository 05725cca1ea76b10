// Package errors provides typed errors for the application
package errors

import stderrors "errors"

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypeUnauthorized
	ErrorTypeUnavailable
	ErrorTypeInternal
)

// String returns a short label usable in logs and metrics
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeConflict:
		return "conflict"
	case ErrorTypeUnauthorized:
		return "unauthorized"
	case ErrorTypeUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a message tagged with its ErrorType
type Error struct {
	Type ErrorType
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func newError(t ErrorType, msg string) *Error {
	return &Error{Type: t, msg: msg}
}

// NewValidationError creates a new validation error
func NewValidationError(msg string) *Error { return newError(ErrorTypeValidation, msg) }

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string) *Error { return newError(ErrorTypeNotFound, msg) }

// NewConflictError creates a new conflict error
func NewConflictError(msg string) *Error { return newError(ErrorTypeConflict, msg) }

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(msg string) *Error { return newError(ErrorTypeUnauthorized, msg) }

// NewUnavailableError creates an error for a dependency that is not ready
func NewUnavailableError(msg string) *Error { return newError(ErrorTypeUnavailable, msg) }

// NewInternalError creates a new internal error
func NewInternalError(msg string) *Error { return newError(ErrorTypeInternal, msg) }

// TypeOf returns the type of the first typed error in the chain.
// Untyped errors are reported as internal.
func TypeOf(err error) ErrorType {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Type
	}
	return ErrorTypeInternal
}

func isType(err error, t ErrorType) bool {
	var typed *Error
	return stderrors.As(err, &typed) && typed.Type == t
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsNotFoundError checks if error is a not found error
func IsNotFoundError(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsConflictError checks if error is a conflict error
func IsConflictError(err error) bool { return isType(err, ErrorTypeConflict) }

// IsUnauthorizedError checks if error is an unauthorized error
func IsUnauthorizedError(err error) bool { return isType(err, ErrorTypeUnauthorized) }

// IsUnavailableError checks if error is an unavailable error
func IsUnavailableError(err error) bool { return isType(err, ErrorTypeUnavailable) }

// IsInternalError checks if error is an internal error
func IsInternalError(err error) bool { return isType(err, ErrorTypeInternal) }
