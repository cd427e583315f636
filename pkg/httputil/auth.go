package httputil

import (
	"net/http"
	"strings"

	"github.com/DeBrosOfficial/indexer-client/pkg/auth"
)

// ExtractCredential reads the signature headers of r. The x-message header is
// percent-decoded once. Missing headers are reported as ErrUnauthorized.
func ExtractCredential(r *http.Request) (auth.Credential, error) {
	signature := strings.TrimSpace(r.Header.Get(auth.HeaderSignature))
	encoded := r.Header.Get(auth.HeaderMessage)
	signer := strings.TrimSpace(r.Header.Get(auth.HeaderSigner))
	if signature == "" || encoded == "" || signer == "" {
		return auth.Credential{}, NewHTTPError(http.StatusUnauthorized, "missing signature headers")
	}

	message, err := auth.DecodeMessage(encoded)
	if err != nil {
		return auth.Credential{}, NewHTTPError(http.StatusBadRequest, "malformed x-message header")
	}

	return auth.Credential{
		Message:   message,
		Signature: signature,
		Signer:    signer,
	}, nil
}

// ExtractReferral returns the x-referral header, trimmed.
func ExtractReferral(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(auth.HeaderReferral))
}

// IsDevRequest reports whether the request carries x-dev: true.
func IsDevRequest(r *http.Request) bool {
	return parseBool(r.Header.Get(auth.HeaderDev), false)
}
