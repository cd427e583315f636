package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables recognised by ApplyEnv
const (
	EnvBaseURL         = "INDEXER_BASE_URL"
	EnvDev             = "INDEXER_DEV"
	EnvRequestTimeout  = "INDEXER_REQUEST_TIMEOUT"
	EnvFallbackEnabled = "INDEXER_FALLBACK_ENABLED"
	EnvFallbackTimeout = "INDEXER_FALLBACK_TIMEOUT"
)

// ApplyEnv overrides configuration values with environment variables when set.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.Client.BaseURL = v
	}
	if err := envBool(lookup, EnvDev, &c.Client.Dev); err != nil {
		return err
	}
	if err := envDuration(lookup, EnvRequestTimeout, &c.Client.RequestTimeout); err != nil {
		return err
	}
	if err := envBool(lookup, EnvFallbackEnabled, &c.Fallback.Enabled); err != nil {
		return err
	}
	return envDuration(lookup, EnvFallbackTimeout, &c.Fallback.Timeout)
}

func envBool(lookup func(string) (string, bool), name string, dst *bool) error {
	v, ok := lookup(name)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: invalid boolean %q", name, v)
	}
	*dst = b
	return nil
}

func envDuration(lookup func(string) (string, bool), name string, dst *time.Duration) error {
	v, ok := lookup(name)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Bare integers are read as milliseconds.
		ms, convErr := strconv.Atoi(v)
		if convErr != nil {
			return fmt.Errorf("%s: invalid duration %q", name, v)
		}
		d = time.Duration(ms) * time.Millisecond
	}
	*dst = d
	return nil
}
