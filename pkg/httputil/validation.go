package httputil

import (
	"regexp"
	"strings"

	"github.com/mr-tron/base58"
)

// Supported wallet chains.
const (
	ChainEthereum = "ethereum"
	ChainSolana   = "solana"
)

// ValidateWalletAddress checks if a string looks like an Ethereum wallet address.
// Valid addresses are 40 hex characters, optionally prefixed with "0x".
var walletRegex = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{40}$`)

func ValidateWalletAddress(wallet string) bool {
	return walletRegex.MatchString(strings.TrimSpace(wallet))
}

// ValidateSolanaAddress checks that s is a base58 encoded 32-byte public key.
func ValidateSolanaAddress(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	b, err := base58.Decode(s)
	return err == nil && len(b) == 32
}

// ChainOf returns the chain an address belongs to, or "" if it is neither.
func ChainOf(address string) string {
	address = strings.TrimSpace(address)
	switch {
	case strings.HasPrefix(strings.ToLower(address), "0x") && ValidateWalletAddress(address):
		return ChainEthereum
	case ValidateSolanaAddress(address):
		return ChainSolana
	default:
		return ""
	}
}

// NormalizeWalletAddress lowercases Ethereum addresses and keeps their 0x
// prefix. Solana addresses are case sensitive and only trimmed.
func NormalizeWalletAddress(wallet string) string {
	wallet = strings.TrimSpace(wallet)
	if ChainOf(wallet) != ChainEthereum {
		return wallet
	}
	return "0x" + strings.ToLower(wallet[2:])
}

// Usernames are 3 to 32 characters of letters, digits, underscores and hyphens.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

func ValidateUsername(name string) bool {
	return usernameRegex.MatchString(name)
}

// Referral codes are 4 to 32 alphanumeric characters.
var referralRegex = regexp.MustCompile(`^[A-Za-z0-9]{4,32}$`)

func ValidateReferralCode(code string) bool {
	return referralRegex.MatchString(strings.TrimSpace(code))
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
