package client

import (
	"net/http"
	"time"

	"github.com/DeBrosOfficial/indexer-client/pkg/config"
	"github.com/DeBrosOfficial/indexer-client/pkg/contracts"
	"github.com/DeBrosOfficial/indexer-client/pkg/fallback"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
)

// ClientConfig represents configuration for the indexer client
type ClientConfig struct {
	BaseURL        string          // Required, e.g. "http://localhost:8787/api"
	Dev            bool            // Sends x-dev: true on every request
	RequestTimeout time.Duration   // Transport timeout per request
	Fallback       fallback.Policy // Only effective when Dev is set

	HTTPClient *http.Client           // Optional; built from RequestTimeout when nil
	Logger     *logging.ColoredLogger // Optional; discards output when nil
	Synth      contracts.Synthesizer  // Optional; defaults to mockdata
	OnFallback fallback.Observer      // Optional; notified of every guarded call
}

// DefaultClientConfig returns a default client configuration for baseURL
func DefaultClientConfig(baseURL string) *ClientConfig {
	return &ClientConfig{
		BaseURL:        baseURL,
		RequestTimeout: config.DefaultRequestTimeout,
		Fallback: fallback.Policy{
			Enabled: false,
			Timeout: config.DefaultFallbackTimeout,
		},
	}
}

// FromConfig maps the file/env configuration onto a ClientConfig.
func FromConfig(cfg *config.Config, logger *logging.ColoredLogger) *ClientConfig {
	return &ClientConfig{
		BaseURL:        cfg.Client.BaseURL,
		Dev:            cfg.Client.Dev,
		RequestTimeout: cfg.Client.RequestTimeout,
		Fallback: fallback.Policy{
			Enabled: cfg.Fallback.Enabled,
			Timeout: cfg.Fallback.Timeout,
		},
		Logger: logger,
	}
}
