package errors

import "errors"

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsUnauthorized checks if an error indicates lack of authentication.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUnauthorized)
}

// IsTimeout checks if an error indicates a timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}

	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr) || errors.Is(err, ErrTimeout)
}

// IsTransport checks if an error is a transport failure (no response received).
func IsTransport(err error) bool {
	if err == nil {
		return false
	}

	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsCancelled checks if an error was caused by a caller abort.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}

	var cancelledErr *CancelledError
	return errors.As(err, &cancelledErr)
}

// IsAPIError checks if an error is an application-level failure reported by
// the remote service.
func IsAPIError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// StatusOf returns the HTTP status carried by an APIError, or 0 when the error
// did not come from a received response.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ShouldRetry checks if an operation could be retried by the caller.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	if IsCancelled(err) {
		return false
	}

	if IsTimeout(err) || IsTransport(err) {
		return true
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return IsRetryable(customErr.Code())
	}

	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Code()
	}

	switch {
	case errors.Is(err, ErrCancelled):
		return CodeCancelled
	case IsNotFound(err):
		return CodeNotFound
	case IsUnauthorized(err):
		return CodeUnauthenticated
	case IsTimeout(err):
		return CodeTimeout
	default:
		return CodeInternal
	}
}

// GetErrorMessage extracts a human-readable message from an error.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Message()
	}

	return err.Error()
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
