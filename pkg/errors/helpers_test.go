package errors

import (
	"context"
	"fmt"
	"testing"
)

func TestClassifiers(t *testing.T) {
	transport := NewTransportError("GET", "http://localhost/health", fmt.Errorf("refused"))
	cancelled := NewCancelledError("GET /health", context.Canceled)
	api := NewAPIError("health", 503, "maintenance", "")
	validation := NewValidationError("body", "unencodable", nil)

	tests := []struct {
		name        string
		err         error
		isTransport bool
		isCancelled bool
		isAPI       bool
		isValid     bool
	}{
		{"transport", transport, true, false, false, false},
		{"cancelled", cancelled, false, true, false, false},
		{"api", api, false, false, true, false},
		{"validation", validation, false, false, false, true},
		{"wrapped transport", fmt.Errorf("health: %w", transport), true, false, false, false},
		{"nil", nil, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransport(tt.err); got != tt.isTransport {
				t.Errorf("IsTransport: expected %v, got %v", tt.isTransport, got)
			}
			if got := IsCancelled(tt.err); got != tt.isCancelled {
				t.Errorf("IsCancelled: expected %v, got %v", tt.isCancelled, got)
			}
			if got := IsAPIError(tt.err); got != tt.isAPI {
				t.Errorf("IsAPIError: expected %v, got %v", tt.isAPI, got)
			}
			if got := IsValidation(tt.err); got != tt.isValid {
				t.Errorf("IsValidation: expected %v, got %v", tt.isValid, got)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(NewAPIError("me", 403, "", "")); got != 403 {
		t.Errorf("Expected 403, got %d", got)
	}
	if got := StatusOf(NewTransportError("GET", "x", nil)); got != 0 {
		t.Errorf("Expected 0 for transport error, got %d", got)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"transport", NewTransportError("GET", "x", nil), true},
		{"timeout", NewTimeoutError("health", "3s"), true},
		{"cancelled", NewCancelledError("", context.Canceled), false},
		{"service unavailable", NewAPIError("", 503, "", ""), true},
		{"rate limited", NewAPIError("", 429, "", ""), true},
		{"bad request", NewAPIError("", 400, "", ""), false},
		{"plain error", fmt.Errorf("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.err); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, CodeOK},
		{"sentinel not found", fmt.Errorf("lookup: %w", ErrNotFound), CodeNotFound},
		{"sentinel cancelled", fmt.Errorf("abort: %w", ErrCancelled), CodeCancelled},
		{"api conflict", NewAPIError("", 409, "", ""), CodeConflict},
		{"plain", fmt.Errorf("plain"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	if got := GetErrorMessage(NewAPIError("me", 401, "bad signature", "")); got != "bad signature" {
		t.Errorf("Expected %q, got %q", "bad signature", got)
	}
	if got := GetErrorMessage(fmt.Errorf("plain")); got != "plain" {
		t.Errorf("Expected %q, got %q", "plain", got)
	}
	if got := GetErrorMessage(nil); got != "" {
		t.Errorf("Expected empty message, got %q", got)
	}
}

func TestCategories(t *testing.T) {
	if GetCategory(CodeUnavailable) != CategoryNetwork {
		t.Errorf("Expected %q, got %q", CategoryNetwork, GetCategory(CodeUnavailable))
	}
	if GetCategory(CodeCancelled) != CategoryCancelled {
		t.Errorf("Expected %q, got %q", CategoryCancelled, GetCategory(CodeCancelled))
	}
	if GetCategory(CodeConflict) != CategoryClient {
		t.Errorf("Expected %q, got %q", CategoryClient, GetCategory(CodeConflict))
	}
	if GetCategory(CodeUnauthenticated) != CategoryAuth {
		t.Errorf("Expected %q, got %q", CategoryAuth, GetCategory(CodeUnauthenticated))
	}
	if GetCategory(CodeInternal) != CategoryServer {
		t.Errorf("Expected %q, got %q", CategoryServer, GetCategory(CodeInternal))
	}
}
