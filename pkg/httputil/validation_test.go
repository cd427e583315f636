package httputil

import "testing"

func TestChainOf(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"ethereum", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", ChainEthereum},
		{"ethereum too short", "0xf39Fd6e51aad88F6F4ce6a", ""},
		{"solana", "11111111111111111111111111111111", ChainSolana},
		{"bad base58", "0OIl", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChainOf(tt.address); got != tt.want {
				t.Errorf("ChainOf(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}

func TestNormalizeWalletAddress(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  0xF39FD6E51AAD88F6F4CE6AB8827279CFFFB92266 ", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"},
		{"11111111111111111111111111111111", "11111111111111111111111111111111"},
	}

	for _, tt := range tests {
		if got := NormalizeWalletAddress(tt.input); got != tt.want {
			t.Errorf("NormalizeWalletAddress(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", "alice_01", true},
		{"too short", "ab", false},
		{"spaces", "alice bob", false},
		{"too long", "abcdefghijklmnopqrstuvwxyz0123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateUsername(tt.input); got != tt.want {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateReferralCode(t *testing.T) {
	if !ValidateReferralCode("ABCD1234") {
		t.Error("Expected ABCD1234 to be valid")
	}
	if ValidateReferralCode("AB") {
		t.Error("Expected short code to be invalid")
	}
	if ValidateReferralCode("AB-CD") {
		t.Error("Expected punctuation to be rejected")
	}
}
