package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name          string
		field         string
		message       string
		value         interface{}
		expectedError string
	}{
		{
			name:          "with field",
			field:         "method",
			message:       "unsupported HTTP method",
			value:         "TRACE",
			expectedError: "validation error: method: unsupported HTTP method",
		},
		{
			name:          "without field",
			field:         "",
			message:       "invalid input",
			value:         nil,
			expectedError: "validation error: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message, tt.value)
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, err.Error())
			}
			if err.Code() != CodeValidation {
				t.Errorf("Expected code %q, got %q", CodeValidation, err.Code())
			}
			if err.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, err.Field)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Error("Expected validation error to match ErrInvalidInput")
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	cause := fmt.Errorf("dial tcp 127.0.0.1:1: connect: connection refused")
	err := NewTransportError("GET", "http://127.0.0.1:1/health", cause)

	expected := "transport error: GET http://127.0.0.1:1/health: dial tcp 127.0.0.1:1: connect: connection refused"
	if err.Error() != expected {
		t.Errorf("Expected error %q, got %q", expected, err.Error())
	}
	if err.Code() != CodeUnavailable {
		t.Errorf("Expected code %q, got %q", CodeUnavailable, err.Code())
	}
	if !errors.Is(err, ErrTransport) {
		t.Error("Expected transport error to match ErrTransport")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected transport error to unwrap to its cause")
	}
}

func TestCancelledError(t *testing.T) {
	err := NewCancelledError("GET /health", context.Canceled)

	if !strings.HasPrefix(err.Error(), "GET /health cancelled") {
		t.Errorf("Expected error to start with operation, got %q", err.Error())
	}
	if err.Code() != CodeCancelled {
		t.Errorf("Expected code %q, got %q", CodeCancelled, err.Code())
	}
	if !errors.Is(err, ErrCancelled) {
		t.Error("Expected cancelled error to match ErrCancelled")
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("Expected cancelled error to unwrap to context.Canceled")
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name          string
		endpoint      string
		status        int
		message       string
		expectedError string
		expectedCode  string
	}{
		{
			name:          "server message",
			endpoint:      "register",
			status:        409,
			message:       "Referral already applied",
			expectedError: "register: Referral already applied (status 409)",
			expectedCode:  CodeConflict,
		},
		{
			name:          "generic message",
			endpoint:      "",
			status:        500,
			message:       "",
			expectedError: "request failed with status 500 (status 500)",
			expectedCode:  CodeInternal,
		},
		{
			name:          "unauthorized",
			endpoint:      "me",
			status:        401,
			message:       "invalid signature",
			expectedError: "me: invalid signature (status 401)",
			expectedCode:  CodeUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(tt.endpoint, tt.status, tt.message, "")
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, err.Error())
			}
			if err.Code() != tt.expectedCode {
				t.Errorf("Expected code %q, got %q", tt.expectedCode, err.Code())
			}
			if err.Status != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, err.Status)
			}
		})
	}
}

func TestAPIErrorIs(t *testing.T) {
	if !errors.Is(NewAPIError("me", 404, "", ""), ErrNotFound) {
		t.Error("Expected 404 to match ErrNotFound")
	}
	if !errors.Is(NewAPIError("me", 401, "", ""), ErrUnauthorized) {
		t.Error("Expected 401 to match ErrUnauthorized")
	}
	if errors.Is(NewAPIError("me", 500, "", ""), ErrNotFound) {
		t.Error("Expected 500 not to match ErrNotFound")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("health", "3s")
	if err.Error() != "health timeout" {
		t.Errorf("Expected error %q, got %q", "health timeout", err.Error())
	}
	if err.Duration != "3s" {
		t.Errorf("Expected duration %q, got %q", "3s", err.Duration)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Error("Expected timeout error to match ErrTimeout")
	}
}
