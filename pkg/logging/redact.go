package logging

import (
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// sensitiveHeaders are never written to logs in clear.
var sensitiveHeaders = map[string]bool{
	"x-signature":   true,
	"x-message":     true,
	"authorization": true,
	"cookie":        true,
	"x-api-key":     true,
}

// IsSensitiveHeader reports whether the header value must be masked.
func IsSensitiveHeader(name string) bool {
	return sensitiveHeaders[strings.ToLower(name)]
}

// RedactHeaders returns a zap field listing the headers with sensitive values masked.
func RedactHeaders(h http.Header) zap.Field {
	return zap.Object("headers", redactedHeaders(h))
}

type redactedHeaders http.Header

func (h redactedHeaders) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := strings.Join(h[k], ",")
		if IsSensitiveHeader(k) {
			v = redacted
		}
		enc.AddString(k, v)
	}
	return nil
}
