package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors for quick checks
var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when authentication fails or is missing.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput is returned when request input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("operation timeout")

	// ErrCancelled is returned when the caller aborted the operation.
	ErrCancelled = errors.New("operation cancelled")

	// ErrTransport is returned when no response was received from the remote service.
	ErrTransport = errors.New("transport failure")
)

// Error is the base interface for all custom errors in the system.
// It extends the standard error interface with additional context.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// ValidationError represents an input validation error.
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
		},
		Field: field,
		Value: value,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// Is reports whether target is ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// TransportError is returned when a request produced no HTTP response at all
// (DNS failure, refused connection, client-side timeout). It is never turned
// into an envelope.
type TransportError struct {
	*BaseError
	Method string
	URL    string
}

// NewTransportError creates a new transport error. Only non-sensitive request
// metadata is kept.
func NewTransportError(method, url string, cause error) *TransportError {
	return &TransportError{
		BaseError: &BaseError{
			code:    CodeUnavailable,
			message: "transport error",
			cause:   cause,
		},
		Method: method,
		URL:    url,
	}
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.URL, e.cause)
	}
	return fmt.Sprintf("transport error: %s %s", e.Method, e.URL)
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// CancelledError is returned when a caller-supplied context aborted an
// in-flight request. It is distinct from a fallback timeout.
type CancelledError struct {
	*BaseError
	Operation string
}

// NewCancelledError creates a new cancellation error.
func NewCancelledError(operation string, cause error) *CancelledError {
	message := "operation cancelled"
	if operation != "" {
		message = fmt.Sprintf("%s cancelled", operation)
	}
	return &CancelledError{
		BaseError: &BaseError{
			code:    CodeCancelled,
			message: message,
			cause:   cause,
		},
		Operation: operation,
	}
}

// Is reports whether target is ErrCancelled.
func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}

// APIError is returned by endpoint methods when the remote service answered
// with a non-2xx status or an envelope with success=false.
type APIError struct {
	*BaseError
	Status     int
	ServerCode string
	Endpoint   string
}

// NewAPIError creates a new API error. message is the server-provided error
// string; an empty message falls back to a generic one.
func NewAPIError(endpoint string, status int, message, serverCode string) *APIError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{
		BaseError: &BaseError{
			code:    CodeFromStatus(status),
			message: message,
		},
		Status:     status,
		ServerCode: serverCode,
		Endpoint:   endpoint,
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Endpoint, e.message, e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.message, e.Status)
}

// Is maps well-known statuses onto the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrUnauthorized:
		return e.Status == 401
	case ErrInvalidInput:
		return e.Status == 400 || e.Status == 422
	}
	return false
}

// TimeoutError represents a timeout error.
type TimeoutError struct {
	*BaseError
	Operation string
	Duration  string
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(operation, duration string) *TimeoutError {
	message := "operation timeout"
	if operation != "" {
		message = fmt.Sprintf("%s timeout", operation)
	}
	return &TimeoutError{
		BaseError: &BaseError{
			code:    CodeTimeout,
			message: message,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// SerializationError is returned when a body cannot be encoded or decoded.
type SerializationError struct {
	*BaseError
}

// NewSerializationError creates a new serialization error.
func NewSerializationError(message string, cause error) *SerializationError {
	return &SerializationError{
		BaseError: &BaseError{
			code:    CodeSerializationError,
			message: message,
			cause:   cause,
		},
	}
}
