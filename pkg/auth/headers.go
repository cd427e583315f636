package auth

import "strings"

// Header names understood by the indexing service.
const (
	HeaderSignature = "x-signature"
	HeaderMessage   = "x-message"
	HeaderSigner    = "x-signer"
	HeaderReferral  = "x-referral"
	HeaderDev       = "x-dev"
)

// Credential is the per-call signing material. It is passed by value, never
// stored by the client and never logged.
type Credential struct {
	Message   string
	Signature string
	Signer    string
}

// IsZero reports whether no credential was supplied.
func (c Credential) IsZero() bool {
	return c.Message == "" && c.Signature == "" && c.Signer == ""
}

// String keeps signing material out of fmt and log output.
func (c Credential) String() string {
	return "Credential{Signer: " + c.Signer + "}"
}

// BuildHeaders derives the three authentication headers from a credential.
//
// The signature has every CR and LF removed, the message is percent-encoded
// exactly once and the signer is passed through. The result is a fresh map on
// every call; endpoint-specific headers such as x-referral are added by the
// caller.
func BuildHeaders(c Credential) map[string]string {
	return map[string]string{
		HeaderSignature: stripLineBreaks(c.Signature),
		HeaderMessage:   EncodeMessage(c.Message),
		HeaderSigner:    c.Signer,
	}
}

func stripLineBreaks(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
