package remote

import (
	"errors"
	"net/url"
	"time"

	"github.com/yndnr/worldsync/internal/infra/tlsroots"
)

// Config configures the remote client.
type Config struct {
	// Endpoint is the gateway base URL.
	Endpoint string `koanf:"endpoint"`

	// APIKey is sent as a bearer token when set.
	APIKey string `koanf:"api_key"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	PageSize    int `koanf:"page_size"`
	Concurrency int `koanf:"concurrency"`

	// RateLimit is requests per second across all streams; 0 disables it.
	RateLimit float64 `koanf:"rate_limit"`
	Burst     int     `koanf:"burst"`

	Retry RetryConfig `koanf:"retry"`

	// TLS applies to https endpoints only.
	TLS tlsroots.ClientConfig `koanf:"tls"`
}

// RetryConfig configures backoff between attempts of one request.
type RetryConfig struct {
	MaxRetries      uint64        `koanf:"max_retries"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "http://127.0.0.1:8590",
		Timeout:     30 * time.Second,
		PageSize:    1000,
		Concurrency: 4,
		Burst:       8,
		Retry: RetryConfig{
			MaxRetries:      5,
			InitialInterval: 250 * time.Millisecond,
			MaxInterval:     10 * time.Second,
		},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("remote: endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("remote: endpoint must be an http(s) URL")
	}
	if c.PageSize <= 0 {
		return errors.New("remote: page_size must be positive")
	}
	if c.Concurrency <= 0 {
		return errors.New("remote: concurrency must be positive")
	}
	if c.RateLimit < 0 {
		return errors.New("remote: rate_limit must not be negative")
	}
	if c.TLS.Enabled() && u.Scheme != "https" {
		return errors.New("remote: tls settings need an https endpoint")
	}
	return c.TLS.Validate()
}
