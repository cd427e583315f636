package auth

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
)

// Signer produces wallet signatures over arbitrary messages.
type Signer interface {
	// Address returns the public wallet address used as x-signer.
	Address() string
	// SignMessage signs msg and returns the encoded signature.
	SignMessage(msg []byte) (string, error)
}

// NewCredential signs message with s and packages the result.
func NewCredential(s Signer, message string) (Credential, error) {
	sig, err := s.SignMessage([]byte(message))
	if err != nil {
		return Credential{}, fmt.Errorf("failed to sign message: %w", err)
	}
	return Credential{
		Message:   message,
		Signature: sig,
		Signer:    s.Address(),
	}, nil
}

// PersonalMessageHash returns the EIP-191 hash of msg as signed by personal_sign.
func PersonalMessageHash(msg []byte) []byte {
	prefix := []byte("\x19Ethereum Signed Message:\n" + strconv.Itoa(len(msg)))
	return ethcrypto.Keccak256(prefix, msg)
}

// EthereumSigner signs with a secp256k1 key using personal_sign semantics.
// Signatures are 0x-prefixed hex with v in {27, 28}.
type EthereumSigner struct {
	key     *ecdsa.PrivateKey
	address string
}

// NewEthereumSigner parses a hex private key, with or without 0x prefix.
func NewEthereumSigner(hexKey string) (*EthereumSigner, error) {
	hexKey = strings.TrimSpace(hexKey)
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")
	key, err := ethcrypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid ethereum private key: %w", err)
	}
	return newEthereumSigner(key), nil
}

// GenerateEthereumSigner creates a signer with a fresh random key.
func GenerateEthereumSigner() (*EthereumSigner, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return newEthereumSigner(key), nil
}

func newEthereumSigner(key *ecdsa.PrivateKey) *EthereumSigner {
	return &EthereumSigner{
		key:     key,
		address: ethcrypto.PubkeyToAddress(key.PublicKey).Hex(),
	}
}

// Address returns the checksummed 0x address.
func (s *EthereumSigner) Address() string {
	return s.address
}

// SignMessage implements Signer.
func (s *EthereumSigner) SignMessage(msg []byte) (string, error) {
	sig, err := ethcrypto.Sign(PersonalMessageHash(msg), s.key)
	if err != nil {
		return "", err
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

// SolanaSigner signs with an ed25519 key. Address and signature are base58.
type SolanaSigner struct {
	key ed25519.PrivateKey
}

// NewSolanaSigner parses a base58 encoded 64-byte secret key or 32-byte seed.
func NewSolanaSigner(secret string) (*SolanaSigner, error) {
	raw, err := base58.Decode(strings.TrimSpace(secret))
	if err != nil {
		return nil, fmt.Errorf("invalid base58 secret: %w", err)
	}
	switch len(raw) {
	case ed25519.PrivateKeySize:
		return &SolanaSigner{key: ed25519.PrivateKey(raw)}, nil
	case ed25519.SeedSize:
		return &SolanaSigner{key: ed25519.NewKeyFromSeed(raw)}, nil
	default:
		return nil, fmt.Errorf("invalid secret length: expected %d or %d bytes, got %d",
			ed25519.PrivateKeySize, ed25519.SeedSize, len(raw))
	}
}

// GenerateSolanaSigner creates a signer with a fresh random key.
func GenerateSolanaSigner() (*SolanaSigner, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &SolanaSigner{key: key}, nil
}

// Address returns the base58 public key.
func (s *SolanaSigner) Address() string {
	return base58.Encode(s.key.Public().(ed25519.PublicKey))
}

// SignMessage implements Signer.
func (s *SolanaSigner) SignMessage(msg []byte) (string, error) {
	return base58.Encode(ed25519.Sign(s.key, msg)), nil
}
