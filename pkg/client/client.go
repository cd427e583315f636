// Package client is a signature-authenticated HTTP client for the indexing
// service.
//
// Every request that yields an HTTP response is normalized into an Envelope.
// Requests that yield no response fail with a TransportError (or a
// CancelledError when the caller's context ended). Endpoint methods turn
// unsuccessful envelopes into APIErrors and, for read endpoints, run under
// the client's fallback controller.
package client

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/indexer-client/pkg/contracts"
	"github.com/DeBrosOfficial/indexer-client/pkg/errors"
	"github.com/DeBrosOfficial/indexer-client/pkg/fallback"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
	"github.com/DeBrosOfficial/indexer-client/pkg/mockdata"
)

// Client holds only immutable configuration and is safe for concurrent use.
type Client struct {
	baseURL  *url.URL
	dev      bool
	http     *http.Client
	logger   *logging.ColoredLogger
	fallback *fallback.Controller
	synth    contracts.Synthesizer
}

var _ contracts.IndexerAPI = (*Client)(nil)

// New creates a client from cfg.
func New(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.NewValidationError("config", "must not be nil", nil)
	}

	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	synth := cfg.Synth
	if synth == nil {
		synth = mockdata.New()
	}

	if cfg.Fallback.Enabled && !cfg.Dev {
		logger.ComponentWarn(logging.ComponentClient, "Fallback is enabled but dev mode is off; synthetic data will never be used")
	}

	opts := []fallback.Option{fallback.WithLogger(logger)}
	if cfg.OnFallback != nil {
		opts = append(opts, fallback.WithObserver(cfg.OnFallback))
	}

	c := &Client{
		baseURL:  base,
		dev:      cfg.Dev,
		http:     httpClient,
		logger:   logger,
		fallback: fallback.NewController(cfg.Fallback, cfg.Dev, opts...),
		synth:    synth,
	}

	logger.ComponentDebug(logging.ComponentClient, "Client created",
		zap.String("base_url", base.String()),
		zap.Bool("dev", cfg.Dev),
		zap.Bool("fallback", c.fallback.Enabled()),
	)
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.NewValidationError("base_url", "must not be empty", raw)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewValidationError("base_url", "must be an absolute http(s) URL", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Dev reports whether the client sends x-dev: true.
func (c *Client) Dev() bool {
	return c.dev
}

// FallbackEnabled reports whether synthetic substitution is active.
func (c *Client) FallbackEnabled() bool {
	return c.fallback.Enabled()
}
