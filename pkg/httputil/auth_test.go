package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DeBrosOfficial/indexer-client/pkg/auth"
)

func TestExtractCredential(t *testing.T) {
	tests := []struct {
		name         string
		headers      map[string]string
		expectedCode int
		expectedMsg  string
	}{
		{
			name: "valid",
			headers: map[string]string{
				"x-signature": "0xsig",
				"x-message":   auth.EncodeMessage("Sign in: 42\nnonce"),
				"x-signer":    "0xabc",
			},
			expectedMsg: "Sign in: 42\nnonce",
		},
		{
			name:         "missing signer",
			headers:      map[string]string{"x-signature": "0xsig", "x-message": "hi"},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "malformed message",
			headers: map[string]string{
				"x-signature": "0xsig",
				"x-message":   "%zz",
				"x-signer":    "0xabc",
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			cred, err := ExtractCredential(req)
			if tt.expectedCode != 0 {
				httpErr, ok := err.(*HTTPError)
				if !ok {
					t.Fatalf("Expected HTTPError, got %v", err)
				}
				if httpErr.Code != tt.expectedCode {
					t.Errorf("Expected code %d, got %d", tt.expectedCode, httpErr.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if cred.Message != tt.expectedMsg {
				t.Errorf("Expected message %q, got %q", tt.expectedMsg, cred.Message)
			}
		})
	}
}

func TestIsDevRequest(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.value != "" {
			req.Header.Set("x-dev", tt.value)
		}
		if got := IsDevRequest(req); got != tt.expected {
			t.Errorf("IsDevRequest(%q) = %v, want %v", tt.value, got, tt.expected)
		}
	}
}

func TestExtractReferral(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-referral", "  ABCD1234 ")
	if got := ExtractReferral(req); got != "ABCD1234" {
		t.Errorf("Expected trimmed referral, got %q", got)
	}
}
