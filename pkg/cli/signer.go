package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/DeBrosOfficial/indexer-client/pkg/auth"
)

// PrivateKeyEnv names the variable holding the wallet key used to sign.
const PrivateKeyEnv = "INDEXER_PRIVATE_KEY"

// signerFromKey accepts a hex secp256k1 key or a base58 ed25519 key.
func signerFromKey(key string) (auth.Signer, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%s is not set", PrivateKeyEnv)
	}
	if eth, err := auth.NewEthereumSigner(key); err == nil {
		return eth, nil
	}
	if sol, err := auth.NewSolanaSigner(key); err == nil {
		return sol, nil
	}
	return nil, fmt.Errorf("%s is neither a hex Ethereum key nor a base58 Solana key", PrivateKeyEnv)
}

// SignInMessage is the message a wallet signs to authenticate.
func SignInMessage(address string, issued time.Time) string {
	return fmt.Sprintf("Sign in to the indexer\nAddress: %s\nIssued: %s", address, issued.UTC().Format(time.RFC3339))
}

// credentialFromEnv signs a fresh sign-in message with the key in PrivateKeyEnv.
func credentialFromEnv() (auth.Credential, error) {
	signer, err := signerFromKey(os.Getenv(PrivateKeyEnv))
	if err != nil {
		return auth.Credential{}, err
	}
	return auth.NewCredential(signer, SignInMessage(signer.Address(), time.Now()))
}
