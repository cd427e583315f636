package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DeBrosOfficial/indexer-client/pkg/errors"
)

func newTestClient(t *testing.T, serverURL string, dev bool) *Client {
	t.Helper()
	cfg := DefaultClientConfig(serverURL)
	cfg.Dev = dev
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{"empty", ""},
		{"relative", "/api"},
		{"bad scheme", "ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(DefaultClientConfig(tt.baseURL))
			if !errors.IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}

	if _, err := New(nil); !errors.IsValidation(err) {
		t.Errorf("Expected validation error for nil config, got %v", err)
	}
}

func TestExecuteDefaultHeaders(t *testing.T) {
	tests := []struct {
		name        string
		dev         bool
		callHeaders map[string]string
		expectedDev string
	}{
		{"dev client", true, nil, "true"},
		{"non-dev client", false, nil, ""},
		{"per-call x-dev ignored", false, map[string]string{"x-dev": "true"}, ""},
		{"per-call x-dev cannot remove", true, map[string]string{"X-Dev": "false"}, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("Expected Content-Type application/json, got %q", r.Header.Get("Content-Type"))
				}
				if r.Header.Get("Accept") != "application/json" {
					t.Errorf("Expected Accept application/json, got %q", r.Header.Get("Accept"))
				}
				if got := r.Header.Get("x-dev"); got != tt.expectedDev {
					t.Errorf("Expected x-dev %q, got %q", tt.expectedDev, got)
				}
				if vals := r.Header.Values("x-dev"); len(vals) > 1 {
					t.Errorf("Expected a single x-dev value, got %v", vals)
				}
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, tt.dev)
			if _, err := c.Do(context.Background(), Request{Method: "GET", URL: "/health", Headers: tt.callHeaders}); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
		})
	}
}

func TestExecuteCallHeadersOverrideDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "text/plain" {
			t.Errorf("Expected overridden Content-Type, got %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("x-signer") != "0xabc" {
			t.Errorf("Expected x-signer, got %q", r.Header.Get("x-signer"))
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, false)
	_, err := c.Do(context.Background(), Request{
		Method:  "POST",
		URL:     "/echo",
		Headers: map[string]string{"Content-Type": "text/plain", "x-signer": "0xabc"},
		Body:    "hi",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestExecuteBodyEncoding(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		expected string
	}{
		{"nil", nil, ""},
		{"struct", struct {
			Name string `json:"name"`
		}{"alice"}, `{"name":"alice"}`},
		{"map", map[string]int{"n": 1}, `{"n":1}`},
		{"string not json", "plain text", "plain text"},
		{"string json", `{"already":"json"}`, `{"already":"json"}`},
		{"bytes", []byte("raw"), "raw"},
		{"raw message", json.RawMessage(`[1,2]`), `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ := io.ReadAll(r.Body)
				if string(got) != tt.expected {
					t.Errorf("Expected body %q, got %q", tt.expected, string(got))
				}
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, false)
			if _, err := c.Do(context.Background(), Request{Method: "POST", URL: "/x", Body: tt.body}); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
		})
	}
}

func TestExecuteUnencodableBody(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", false)
	_, err := c.Do(context.Background(), Request{Method: "POST", URL: "/x", Body: func() {}})
	if errors.GetErrorCode(err) != errors.CodeSerializationError {
		t.Errorf("Expected serialization error, got %v", err)
	}
}

func TestExecuteURLResolution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"` + r.URL.RequestURI() + `"`))
	}))
	defer server.Close()

	cfg := DefaultClientConfig(server.URL + "/api/")
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	tests := []struct {
		url      string
		expected string
	}{
		{"/users/me", "/api/users/me"},
		{"users/me", "/api/users/me"},
		{"/leaderboard?limit=5&period=week", "/api/leaderboard?limit=5&period=week"},
		{server.URL + "/absolute", "/absolute"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			env, err := Execute[string](context.Background(), c, Request{Method: "GET", URL: tt.url})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if env.Data != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, env.Data)
			}
		})
	}
}

func TestExecuteInvalidMethod(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, false)
	_, err := c.Do(context.Background(), Request{Method: "TRACE", URL: "/x"})
	if !errors.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if called {
		t.Error("Expected no request to be sent")
	}
}

func TestExecuteLowercaseMethod(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("Expected PATCH, got %s", r.Method)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, false)
	if _, err := c.Do(context.Background(), Request{Method: "patch", URL: "/x"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestExecuteSuccessEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "req-1")
		w.Header().Add("X-Multi", "first")
		w.Header().Add("X-Multi", "second")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"total":42},"timestamp":"1999-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, false)
	before := time.Now().UTC().Add(-time.Second)
	env, err := Execute[point](context.Background(), c, Request{Method: "GET", URL: "/points"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !env.OK || !env.Success {
		t.Errorf("Expected OK and Success, got ok=%v success=%v", env.OK, env.Success)
	}
	if env.Error != nil {
		t.Errorf("Expected no error body, got %+v", env.Error)
	}
	if env.Status != http.StatusCreated || env.StatusText != "Created" {
		t.Errorf("Expected 201 Created, got %d %s", env.Status, env.StatusText)
	}
	if env.Data.Total != 42 {
		t.Errorf("Expected total 42, got %d", env.Data.Total)
	}
	if env.Headers["X-Request-Id"] != "req-1" {
		t.Errorf("Expected request id header, got %q", env.Headers["X-Request-Id"])
	}
	if env.Headers["X-Multi"] != "first" {
		t.Errorf("Expected first header value, got %q", env.Headers["X-Multi"])
	}

	ts, err := time.Parse(time.RFC3339Nano, env.Timestamp)
	if err != nil {
		t.Fatalf("Expected RFC 3339 timestamp, got %q", env.Timestamp)
	}
	if ts.Before(before) {
		t.Errorf("Expected client-side timestamp, got %v", ts)
	}
}

func TestExecuteErrorStatusIsNotAnError(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{"not found", 404, `{"success":false,"error":"User not found"}`, "User not found"},
		{"conflict", 409, `{"error":"Referral already applied"}`, "Referral already applied"},
		{"server error", 500, `oops`, "request failed with status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, false)
			env, err := Execute[point](context.Background(), c, Request{Method: "GET", URL: "/x"})
			if err != nil {
				t.Fatalf("Expected envelope, got error %v", err)
			}
			if env.OK || env.Success {
				t.Errorf("Expected OK=false Success=false, got %v/%v", env.OK, env.Success)
			}
			if env.Status != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, env.Status)
			}
			if env.Error == nil {
				t.Fatal("Expected error body")
			}
			if env.Error.Message() != tt.expectedMessage {
				t.Errorf("Expected message %q, got %q", tt.expectedMessage, env.Error.Message())
			}
			if env.Data.Total != 0 {
				t.Errorf("Expected zero data, got %+v", env.Data)
			}
		})
	}
}

func TestExecuteBackendFailureOn2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"Referral code invalid"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, false)
	env, err := Execute[point](context.Background(), c, Request{Method: "GET", URL: "/x"})
	if err != nil {
		t.Fatalf("Expected envelope, got error %v", err)
	}
	if !env.OK {
		t.Error("Expected OK for a 2xx status")
	}
	if env.Success {
		t.Error("Expected Success=false")
	}
	if env.Error == nil || env.Error.Message() != "Referral code invalid" {
		t.Errorf("Expected server error message, got %+v", env.Error)
	}
}

func TestExecuteUndecodableSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[1,2,3]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, false)
	_, err := Execute[point](context.Background(), c, Request{Method: "GET", URL: "/x"})
	if errors.GetErrorCode(err) != errors.CodeSerializationError {
		t.Errorf("Expected serialization error, got %v", err)
	}
}

func TestExecuteTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(t, url, false)
	env, err := c.Do(context.Background(), Request{Method: "GET", URL: "/health"})
	if env != nil {
		t.Errorf("Expected no envelope, got %+v", env)
	}
	if !errors.IsTransport(err) {
		t.Fatalf("Expected transport error, got %v", err)
	}
	if errors.IsCancelled(err) {
		t.Error("Expected transport error not to be a cancellation")
	}
}

func TestExecuteClientTimeoutIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	cfg := DefaultClientConfig(server.URL)
	cfg.RequestTimeout = 20 * time.Millisecond
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = c.Do(context.Background(), Request{Method: "GET", URL: "/slow"})
	if !errors.IsTransport(err) {
		t.Errorf("Expected transport error, got %v", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, false)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Do(ctx, Request{Method: "GET", URL: "/slow"})
	if !errors.IsCancelled(err) {
		t.Errorf("Expected cancelled error, got %v", err)
	}
}
