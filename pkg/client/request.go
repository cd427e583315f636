package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/indexer-client/pkg/auth"
	"github.com/DeBrosOfficial/indexer-client/pkg/errors"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
)

// maxResponseBody bounds how much of a response body is read.
const maxResponseBody = 10 << 20

// Request describes a single call. URL is absolute or relative to the
// client's base URL; a relative URL keeps its query string.
//
// Body handling: nil sends no body, string, []byte and json.RawMessage are
// sent unchanged, anything else is JSON encoded.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// Do executes req and returns the envelope with the undecoded data member.
func (c *Client) Do(ctx context.Context, req Request) (*Envelope[json.RawMessage], error) {
	return Execute[json.RawMessage](ctx, c, req)
}

// Execute sends req and normalizes the response into an Envelope.
//
// Any response carrying an HTTP status yields an envelope, whatever the
// status. No response yields a TransportError, or a CancelledError when ctx
// ended. Invalid input yields a ValidationError before any I/O.
func Execute[T any](ctx context.Context, c *Client, req Request) (*Envelope[T], error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	method, target := httpReq.Method, httpReq.URL.String()

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.transportFailure(ctx, method, target, start, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, c.transportFailure(ctx, method, target, start, err)
	}

	c.logger.ComponentDebug(logging.ComponentClient, "Request completed",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		logging.RedactHeaders(httpReq.Header),
	)

	env := &Envelope[T]{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    firstValues(resp.Header),
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		env.Error = decodeError(body, resp.StatusCode)
		return env, nil
	}

	data, failure, err := decodeData[T](body)
	if err != nil {
		return nil, errors.NewSerializationError(
			fmt.Sprintf("failed to decode response of %s %s", method, target), err)
	}
	env.OK = true
	if failure != nil {
		failure.status = resp.StatusCode
		env.Error = failure
		return env, nil
	}
	env.Success = true
	env.Data = data
	return env, nil
}

func (c *Client) transportFailure(ctx context.Context, method, target string, start time.Time, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		c.logger.ComponentDebug(logging.ComponentClient, "Request cancelled",
			zap.String("method", method),
			zap.String("url", target),
			zap.Duration("duration", time.Since(start)),
		)
		return errors.NewCancelledError(method+" "+target, ctxErr)
	}
	c.logger.ComponentWarn(logging.ComponentClient, "Request failed without response",
		zap.String("method", method),
		zap.String("url", target),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	return errors.NewTransportError(method, target, err)
}

// newRequest builds the http.Request. Header construction completes here,
// before anything is sent.
func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	if !allowedMethods[method] {
		return nil, errors.NewValidationError("method", "unsupported HTTP method", req.Method)
	}

	target, err := c.resolve(req.URL)
	if err != nil {
		return nil, err
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.NewValidationError("url", err.Error(), req.URL)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	// x-dev belongs to the client, not to individual calls.
	httpReq.Header.Del(auth.HeaderDev)
	if c.dev {
		httpReq.Header.Set(auth.HeaderDev, "true")
	}
	return httpReq, nil
}

// resolve joins a relative URL onto the base URL. Absolute URLs pass through.
func (c *Client) resolve(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.NewValidationError("url", "invalid request URL", raw)
	}
	if u.IsAbs() {
		return u.String(), nil
	}

	out := *c.baseURL
	out.Path = c.baseURL.Path + "/" + strings.TrimPrefix(u.Path, "/")
	out.RawPath = ""
	if u.RawPath != "" {
		out.RawPath = c.baseURL.EscapedPath() + "/" + strings.TrimPrefix(u.RawPath, "/")
	}
	out.RawQuery = u.RawQuery
	return out.String(), nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, errors.NewSerializationError("failed to encode request body", err)
		}
		return bytes.NewReader(data), nil
	}
}

func statusText(resp *http.Response) string {
	// resp.Status is "404 Not Found"; keep the reason phrase the server sent.
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func firstValues(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
