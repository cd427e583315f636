package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "client.base_url"
	Message string // e.g., "must not be empty"
	Hint    string // e.g., "expected http(s)://host[:port][/prefix]"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate performs validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateClient()...)
	errs = append(errs, c.validateFallback()...)
	errs = append(errs, c.validateReferral()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

// ValidateLocal validates the sections used by commands that never contact
// the service.
func (c *Config) ValidateLocal() []error {
	var errs []error

	errs = append(errs, c.validateReferral()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

// ValidateServer validates only what the dev server needs.
func (c *Config) ValidateServer() []error {
	var errs []error
	ds := c.DevServer

	if _, _, err := net.SplitHostPort(ds.ListenAddr); err != nil {
		errs = append(errs, ValidationError{
			Path:    "dev_server.listen_addr",
			Message: fmt.Sprintf("invalid address %q", ds.ListenAddr),
			Hint:    "expected host:port",
		})
	}
	if ds.Latency < 0 {
		errs = append(errs, ValidationError{
			Path:    "dev_server.latency",
			Message: "must not be negative",
		})
	}
	if len(ds.FailPaths) > 0 && (ds.FailStatus < 400 || ds.FailStatus > 599) {
		errs = append(errs, ValidationError{
			Path:    "dev_server.fail_status",
			Message: fmt.Sprintf("must be a 4xx or 5xx status; got %d", ds.FailStatus),
		})
	}
	if ds.RateLimit < 0 || ds.RateBurst < 0 {
		errs = append(errs, ValidationError{
			Path:    "dev_server.rate_limit",
			Message: "rate limit and burst must not be negative",
		})
	}
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateClient() []error {
	var errs []error
	cc := c.Client

	if cc.BaseURL == "" {
		errs = append(errs, ValidationError{
			Path:    "client.base_url",
			Message: "must not be empty",
			Hint:    "set it in the config file or via INDEXER_BASE_URL",
		})
	} else {
		u, err := url.Parse(cc.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Path:    "client.base_url",
				Message: fmt.Sprintf("invalid URL %q", cc.BaseURL),
				Hint:    "expected http(s)://host[:port][/prefix]",
			})
		}
	}

	if cc.RequestTimeout <= 0 {
		errs = append(errs, ValidationError{
			Path:    "client.request_timeout",
			Message: "must be positive",
		})
	}
	return errs
}

func (c *Config) validateFallback() []error {
	var errs []error
	fc := c.Fallback

	if fc.Timeout <= 0 {
		errs = append(errs, ValidationError{
			Path:    "fallback.timeout",
			Message: "must be positive",
		})
	}

	if fc.Enabled && !c.Client.Dev {
		errs = append(errs, ValidationError{
			Path:    "fallback.enabled",
			Message: "requires client.dev to be true",
			Hint:    "synthetic data is never substituted outside dev mode",
		})
	}
	return errs
}

func (c *Config) validateReferral() []error {
	var errs []error
	rc := c.Referral

	if rc.Param == "" {
		errs = append(errs, ValidationError{
			Path:    "referral.param",
			Message: "must not be empty",
		})
	}
	if rc.Key == "" {
		errs = append(errs, ValidationError{
			Path:    "referral.key",
			Message: "must not be empty",
		})
	}

	switch rc.Policy {
	case "replace", "keep":
	default:
		errs = append(errs, ValidationError{
			Path:    "referral.policy",
			Message: fmt.Sprintf("invalid value %q", rc.Policy),
			Hint:    "allowed values: replace, keep",
		})
	}

	switch strings.ToLower(rc.Store) {
	case "memory", "file":
	case "sqlite":
		if rc.Path == "" {
			errs = append(errs, ValidationError{
				Path:    "referral.path",
				Message: "must be set for the sqlite store",
			})
		}
	case "redis":
		if _, _, err := net.SplitHostPort(rc.RedisAddr); err != nil {
			errs = append(errs, ValidationError{
				Path:    "referral.redis_addr",
				Message: fmt.Sprintf("invalid address %q", rc.RedisAddr),
				Hint:    "expected host:port",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Path:    "referral.store",
			Message: fmt.Sprintf("invalid value %q", rc.Store),
			Hint:    "allowed values: memory, file, sqlite, redis",
		})
	}
	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	lc := c.Logging

	switch lc.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("invalid value %q", lc.Level),
			Hint:    "allowed values: debug, info, warn, error",
		})
	}

	switch lc.Format {
	case "json", "console":
	default:
		errs = append(errs, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("invalid value %q", lc.Format),
			Hint:    "allowed values: json, console",
		})
	}
	return errs
}
