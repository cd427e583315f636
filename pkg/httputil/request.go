package httputil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// MaxBodyBytes bounds request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes the request body as JSON into the provided value.
// An empty body leaves v untouched.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes)).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}

// DecodeJSONStrict decodes the request body as JSON with strict validation.
// It disallows unknown fields and returns an error if any are present.
func DecodeJSONStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}

// QueryParam returns the value of a query parameter, or defaultValue if not present.
func QueryParam(r *http.Request, key, defaultValue string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return v
	}
	return defaultValue
}

// QueryParamInt returns the integer value of a query parameter, or defaultValue if not present or invalid.
func QueryParamInt(r *http.Request, key string, defaultValue int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return defaultValue
}

// QueryParamBool returns the boolean value of a query parameter.
// Returns true if the parameter value is "true", "1", "yes", or "on" (case-insensitive).
// Returns defaultValue if the parameter is not present or has an invalid value.
func QueryParamBool(r *http.Request, key string, defaultValue bool) bool {
	return parseBool(r.URL.Query().Get(key), defaultValue)
}

func parseBool(v string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
