package auth

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildHeaders(t *testing.T) {
	tests := []struct {
		name              string
		cred              Credential
		expectedSignature string
		expectedMessage   string
	}{
		{
			name:              "crlf stripped from signature",
			cred:              Credential{Message: "m", Signature: "abc\r\ndef", Signer: "0x1"},
			expectedSignature: "abcdef",
			expectedMessage:   "m",
		},
		{
			name:              "lone carriage returns and line feeds",
			cred:              Credential{Message: "m", Signature: "\nab\rc\n", Signer: "0x1"},
			expectedSignature: "abc",
			expectedMessage:   "m",
		},
		{
			name:              "space encoded as %20",
			cred:              Credential{Message: "hello world", Signature: "s", Signer: "0x1"},
			expectedSignature: "s",
			expectedMessage:   "hello%20world",
		},
		{
			name:              "multi-line message",
			cred:              Credential{Message: "Sign in\nNonce: 42", Signature: "s", Signer: "0x1"},
			expectedSignature: "s",
			expectedMessage:   "Sign%20in%0ANonce%3A%2042",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := BuildHeaders(tt.cred)
			if len(h) != 3 {
				t.Errorf("Expected 3 headers, got %d", len(h))
			}
			if h[HeaderSignature] != tt.expectedSignature {
				t.Errorf("Expected signature %q, got %q", tt.expectedSignature, h[HeaderSignature])
			}
			if h[HeaderMessage] != tt.expectedMessage {
				t.Errorf("Expected message %q, got %q", tt.expectedMessage, h[HeaderMessage])
			}
			if h[HeaderSigner] != tt.cred.Signer {
				t.Errorf("Expected signer %q, got %q", tt.cred.Signer, h[HeaderSigner])
			}
		})
	}
}

func TestBuildHeadersDeterministic(t *testing.T) {
	cred := Credential{Message: "Welcome ✓ 100%", Signature: "0xabc\n", Signer: "0xdef"}
	first := BuildHeaders(cred)
	for i := 0; i < 10; i++ {
		next := BuildHeaders(cred)
		for k, v := range first {
			if next[k] != v {
				t.Fatalf("Expected %s=%q on call %d, got %q", k, v, i, next[k])
			}
		}
	}

	first[HeaderSigner] = "mutated"
	if BuildHeaders(cred)[HeaderSigner] != "0xdef" {
		t.Error("Expected a fresh map on every call")
	}
}

func TestCredentialStringHidesSecrets(t *testing.T) {
	cred := Credential{Message: "secret message", Signature: "secret signature", Signer: "0xabc"}
	out := fmt.Sprintf("%v", cred)
	if strings.Contains(out, "secret") {
		t.Errorf("Expected signing material to be hidden, got %q", out)
	}
	if !strings.Contains(out, "0xabc") {
		t.Errorf("Expected signer in output, got %q", out)
	}
}
