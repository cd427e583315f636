package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// maxRawErrorBody bounds how much of a non-JSON error body is kept.
const maxRawErrorBody = 512

// Envelope is the uniform result of every request that produced an HTTP
// response. OK reports a 2xx status. Success is false when the status was not
// 2xx or when a 2xx backend envelope carried success=false; Error is set in
// both cases and Data is meaningful only when Success is true.
type Envelope[T any] struct {
	OK         bool              `json:"ok"`
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Data       T                 `json:"data,omitempty"`
	Error      *ErrorBody        `json:"error,omitempty"`
	Headers    map[string]string `json:"headers"`
	Success    bool              `json:"success"`
	Timestamp  string            `json:"timestamp"` // RFC 3339, set when the response was handled
}

// ErrorBody is the decoded body of a failed response. Unknown fields are
// ignored and every field is optional.
type ErrorBody struct {
	Success *bool           `json:"success,omitempty"`
	Error   string          `json:"error,omitempty"`
	Msg     string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
	// Raw holds the start of a body that was not JSON (e.g. a proxy's HTML page).
	Raw string `json:"raw,omitempty"`

	status int
}

// Message returns the best human-readable description of the failure.
func (e *ErrorBody) Message() string {
	if e == nil {
		return "request failed"
	}
	if e.Error != "" {
		return e.Error
	}
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("request failed with status %d", e.status)
}

// UnmarshalJSON decodes the error body leniently: "error" may be a string or
// an object carrying message/code, and "code" may be a string or a number.
func (e *ErrorBody) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["success"]; ok {
		var b bool
		if json.Unmarshal(raw, &b) == nil {
			e.Success = &b
		}
	}
	if raw, ok := fields["error"]; ok {
		if s, ok := asString(raw); ok {
			e.Error = s
		} else {
			var nested struct {
				Message string          `json:"message"`
				Code    json.RawMessage `json:"code"`
			}
			if json.Unmarshal(raw, &nested) == nil {
				e.Error = nested.Message
				if code, ok := asString(nested.Code); ok {
					e.Code = code
				}
			}
		}
	}
	if raw, ok := fields["message"]; ok {
		if s, ok := asString(raw); ok {
			e.Msg = s
		}
	}
	if raw, ok := fields["code"]; ok {
		if s, ok := asString(raw); ok {
			e.Code = s
		}
	}
	if raw, ok := fields["details"]; ok && !isNull(raw) {
		e.Details = raw
	}
	return nil
}

// asString accepts JSON strings and numbers.
func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || isNull(raw) {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String(), true
	}
	return "", false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeError builds the ErrorBody of a non-2xx response.
func decodeError(body []byte, status int) *ErrorBody {
	eb := &ErrorBody{status: status}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return eb
	}

	switch trimmed[0] {
	case '{':
		if err := json.Unmarshal(trimmed, eb); err == nil {
			eb.status = status
			return eb
		}
	case '"':
		var s string
		if json.Unmarshal(trimmed, &s) == nil {
			eb.Error = s
			return eb
		}
	}

	raw := string(trimmed)
	if len(raw) > maxRawErrorBody {
		raw = raw[:maxRawErrorBody]
	}
	eb.Raw = raw
	return eb
}

// decodeData decodes a 2xx body into T. A backend envelope
// {"success":..,"data":..} is unwrapped to its data member; when it reports
// success=false the decoded failure is returned instead and T stays zero.
func decodeData[T any](body []byte) (T, *ErrorBody, error) {
	var out T
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return out, nil, nil
	}

	if trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if json.Unmarshal(trimmed, &fields) == nil && isBackendEnvelope(fields) {
			if !backendSuccess(fields) {
				eb := &ErrorBody{}
				if err := json.Unmarshal(trimmed, eb); err != nil {
					return out, nil, err
				}
				return out, eb, nil
			}
			data, ok := fields["data"]
			if !ok || isNull(data) {
				return out, nil, nil
			}
			trimmed = data
		}
	}

	if err := json.Unmarshal(trimmed, &out); err != nil {
		// Plain-text bodies are accepted when T is a string.
		if sp, ok := any(&out).(*string); ok && !json.Valid(trimmed) {
			*sp = string(trimmed)
			return out, nil, nil
		}
		return out, nil, err
	}
	return out, nil, nil
}

func backendSuccess(fields map[string]json.RawMessage) bool {
	ok, _ := strconv.ParseBool(strings.TrimSpace(string(fields["success"])))
	return ok
}

// isBackendEnvelope reports whether the object has a boolean "success" member
// and nothing beyond the envelope keys.
func isBackendEnvelope(fields map[string]json.RawMessage) bool {
	raw, ok := fields["success"]
	if !ok {
		return false
	}
	if _, err := strconv.ParseBool(strings.TrimSpace(string(raw))); err != nil {
		return false
	}
	for k := range fields {
		switch k {
		case "success", "data", "error", "message", "timestamp", "code":
		default:
			return false
		}
	}
	return true
}
