package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"

	"github.com/DeBrosOfficial/indexer-client/pkg/errors"
)

// Verify checks that c.Signature is a signature of c.Message by c.Signer.
// 0x signers are verified as EIP-191 personal messages, anything else as an
// ed25519 public key in base58. A mismatch is reported as ErrUnauthorized.
func Verify(c Credential) error {
	signer := strings.TrimSpace(c.Signer)
	if signer == "" || c.Signature == "" {
		return fmt.Errorf("missing signer or signature: %w", errors.ErrUnauthorized)
	}

	var (
		ok  bool
		err error
	)
	if strings.HasPrefix(signer, "0x") || strings.HasPrefix(signer, "0X") {
		ok, err = verifyEthereum(signer, c.Message, c.Signature)
	} else {
		ok, err = verifySolana(signer, c.Message, c.Signature)
	}
	if err != nil {
		return fmt.Errorf("%v: %w", err, errors.ErrUnauthorized)
	}
	if !ok {
		return fmt.Errorf("signature does not match signer: %w", errors.ErrUnauthorized)
	}
	return nil
}

func verifyEthereum(signer, message, signature string) (bool, error) {
	sig, err := hexutil.Decode(strings.TrimSpace(signature))
	if err != nil || len(sig) != 65 {
		return false, fmt.Errorf("invalid signature format")
	}
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := ethcrypto.SigToPub(PersonalMessageHash([]byte(message)), sig)
	if err != nil {
		return false, fmt.Errorf("signature recovery failed: %w", err)
	}

	got := ethcrypto.PubkeyToAddress(*pub).Hex()
	return strings.EqualFold(got, signer), nil
}

func verifySolana(signer, message, signature string) (bool, error) {
	pub, err := base58.Decode(signer)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("invalid signer public key")
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		// Some wallets hand out base64 signatures.
		sig, err = base64.StdEncoding.DecodeString(signature)
		if err != nil || len(sig) != ed25519.SignatureSize {
			return false, fmt.Errorf("invalid signature format")
		}
	}

	return ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig), nil
}
