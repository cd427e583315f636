package errors

// Error codes for categorizing errors.
// These codes map to HTTP status codes where applicable.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeCancelled indicates the operation was cancelled by the caller.
	CodeCancelled = "CANCELLED"

	// CodeInvalidArgument indicates client specified an invalid argument.
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeDeadlineExceeded indicates operation deadline was exceeded.
	CodeDeadlineExceeded = "DEADLINE_EXCEEDED"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound = "NOT_FOUND"

	// CodeAlreadyExists indicates attempting to create a resource that already exists.
	CodeAlreadyExists = "ALREADY_EXISTS"

	// CodePermissionDenied indicates the caller doesn't have permission.
	CodePermissionDenied = "PERMISSION_DENIED"

	// CodeResourceExhausted indicates a resource has been exhausted (rate limits).
	CodeResourceExhausted = "RESOURCE_EXHAUSTED"

	// CodeUnimplemented indicates operation is not implemented or not supported.
	CodeUnimplemented = "UNIMPLEMENTED"

	// CodeInternal indicates internal errors.
	CodeInternal = "INTERNAL"

	// CodeUnavailable indicates the service is currently unavailable or unreachable.
	CodeUnavailable = "UNAVAILABLE"

	// CodeUnauthenticated indicates the request does not have valid authentication.
	CodeUnauthenticated = "UNAUTHENTICATED"

	// Domain-specific error codes

	// CodeValidation indicates input validation failed.
	CodeValidation = "VALIDATION_ERROR"

	// CodeConflict indicates a resource conflict (e.g., referral already applied).
	CodeConflict = "CONFLICT"

	// CodeTimeout indicates an operation timed out.
	CodeTimeout = "TIMEOUT"

	// CodeConfigError indicates a configuration error.
	CodeConfigError = "CONFIG_ERROR"

	// CodeSerializationError indicates serialization/deserialization failed.
	CodeSerializationError = "SERIALIZATION_ERROR"
)

// ErrorCategory represents a high-level error category.
type ErrorCategory string

const (
	// CategoryClient indicates a client-side error (4xx).
	CategoryClient ErrorCategory = "CLIENT_ERROR"

	// CategoryServer indicates a server-side error (5xx).
	CategoryServer ErrorCategory = "SERVER_ERROR"

	// CategoryNetwork indicates a network-related error.
	CategoryNetwork ErrorCategory = "NETWORK_ERROR"

	// CategoryTimeout indicates a timeout error.
	CategoryTimeout ErrorCategory = "TIMEOUT_ERROR"

	// CategoryAuth indicates an authentication/authorization error.
	CategoryAuth ErrorCategory = "AUTH_ERROR"

	// CategoryCancelled indicates the caller aborted the operation.
	CategoryCancelled ErrorCategory = "CANCELLED"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodeInvalidArgument, CodeValidation, CodeNotFound,
		CodeConflict, CodeAlreadyExists, CodeConfigError:
		return CategoryClient

	case CodeUnauthenticated, CodePermissionDenied:
		return CategoryAuth

	case CodeTimeout, CodeDeadlineExceeded:
		return CategoryTimeout

	case CodeUnavailable:
		return CategoryNetwork

	case CodeCancelled:
		return CategoryCancelled

	default:
		return CategoryServer
	}
}

// IsRetryable returns true if an error with the given code is worth retrying
// by the caller. This package never retries on its own.
func IsRetryable(code string) bool {
	switch code {
	case CodeTimeout, CodeDeadlineExceeded,
		CodeUnavailable, CodeResourceExhausted:
		return true
	default:
		return false
	}
}
