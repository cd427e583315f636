package httputil

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DeBrosOfficial/indexer-client/pkg/errors"
)

// Envelope is the response body every indexer endpoint answers with.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
	Timestamp string `json:"timestamp"`
}

// WriteJSON writes a JSON response with the given status code.
// Any encoding errors are silently ignored (best-effort).
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a successful envelope: {"success":true,"data":...}
func WriteData(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

// WriteError writes a failed envelope: {"success":false,"error":"message"}
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, Envelope{
		Error:     msg,
		Timestamp: now(),
	})
}

// WriteErr maps err onto a status code and writes a failed envelope carrying
// the error's message and code.
func WriteErr(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		WriteHTTPError(w, httpErr)
		return
	}
	WriteJSON(w, errors.StatusCode(err), Envelope{
		Error:     errors.GetErrorMessage(err),
		Code:      errors.GetErrorCode(err),
		Timestamp: now(),
	})
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
