package config

import (
	"fmt"
	"os"
	"time"
)

// Config represents the full configuration of the indexer client and its tools
type Config struct {
	Client    ClientConfig    `yaml:"client"`
	Fallback  FallbackConfig  `yaml:"fallback"`
	Referral  ReferralConfig  `yaml:"referral"`
	Logging   LoggingConfig   `yaml:"logging"`
	DevServer DevServerConfig `yaml:"dev_server"`
}

// ClientConfig contains connection settings for the remote indexing service
type ClientConfig struct {
	BaseURL        string        `yaml:"base_url"`        // Required, e.g. https://indexer.example.com/api
	Dev            bool          `yaml:"dev"`             // Adds x-dev: true to every request
	RequestTimeout time.Duration `yaml:"request_timeout"` // Transport-level timeout
}

// FallbackConfig controls synthetic data substitution. Only honoured in dev mode.
type FallbackConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// ReferralConfig selects where the pending referral code is kept
type ReferralConfig struct {
	Param     string `yaml:"param"`      // Query parameter carrying the code (default "ref")
	Policy    string `yaml:"policy"`     // replace | keep
	Store     string `yaml:"store"`      // memory | file | sqlite | redis
	Key       string `yaml:"key"`        // Storage key (default "referral_code")
	Path      string `yaml:"path"`       // File or SQLite database path
	RedisAddr string `yaml:"redis_addr"` // host:port for the redis store
	RedisDB   int    `yaml:"redis_db"`
}

// DevServerConfig configures the local stand-in backend
type DevServerConfig struct {
	ListenAddr string        `yaml:"listen_addr"`
	Latency    time.Duration `yaml:"latency"`     // Artificial delay added to every response
	FailPaths  []string      `yaml:"fail_paths"`  // Paths answered with FailStatus
	FailStatus int           `yaml:"fail_status"` // Defaults to 503
	RateLimit  int           `yaml:"rate_limit"`  // Requests per minute per caller; 0 disables
	RateBurst  int           `yaml:"rate_burst"`
}

// Defaults
const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultFallbackTimeout = 3 * time.Second
	DefaultReferralParam   = "ref"
	DefaultReferralKey     = "referral_code"
	DefaultDevServerAddr   = "127.0.0.1:8787"
	DefaultConfigFile      = "indexer.yaml"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			RequestTimeout: DefaultRequestTimeout,
		},
		Fallback: FallbackConfig{
			Enabled: false,
			Timeout: DefaultFallbackTimeout,
		},
		Referral: ReferralConfig{
			Param:  DefaultReferralParam,
			Policy: "replace",
			Store:  "file",
			Key:    DefaultReferralKey,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		DevServer: DevServerConfig{
			ListenAddr: DefaultDevServerAddr,
			FailStatus: 503,
		},
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	if err := DecodeStrict(f, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}
