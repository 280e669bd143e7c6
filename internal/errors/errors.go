// Package errors provides the coded error type used across the engine.
// The taxonomy is deliberately small: configuration missing, validation
// rejection, network failure, cancellation, internal.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the structured error type for favsearch.
type Error struct {
	// Code is the unique error code (e.g. "ERR_301_NETWORK").
	Code string

	// Message is the human-readable error message.
	Message string

	// Cause is the underlying error, if any.
	Cause error

	// Retryable indicates the operation may succeed on a later attempt.
	Retryable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so errors.Is works with sentinel instances.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an Error with the given code and message. The retryable flag
// is derived from the code.
func New(code, message string, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// NotConfigured creates a configuration-missing error.
func NotConfigured(message string) *Error {
	return New(ErrCodeNotConfigured, message, nil)
}

// ConfigError creates a configuration error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// NetworkError creates a network error. Network errors are retryable.
func NetworkError(message string, cause error) *Error {
	return New(ErrCodeNetwork, message, cause)
}

// Cancelled creates a cancellation error. Cancellations are not failures:
// they mean a newer request superseded this one.
func Cancelled(message string, cause error) *Error {
	return New(ErrCodeCancelled, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *Error {
	return New(ErrCodeInternal, message, cause)
}

// IsCancelled reports whether err represents a superseded request anywhere
// in its chain.
func IsCancelled(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == ErrCodeCancelled
	}
	return false
}

// IsNotConfigured reports whether err means remote traffic is suppressed for
// lack of a usable index key.
func IsNotConfigured(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == ErrCodeNotConfigured
	}
	return false
}

// IsRetryable reports whether the failed operation may be retried.
func IsRetryable(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Retryable
	}
	return false
}
