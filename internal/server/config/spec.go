package config

import (
	"time"

	"github.com/yndnr/worldsync/internal/telemetry/tracer"
)

// GatewayConfig is the root configuration for worldsync-gateway.
type GatewayConfig struct {
	Server    ServerSection    `koanf:"server"`
	World     WorldSection     `koanf:"world"`
	Security  SecuritySection  `koanf:"security"`
	Telemetry TelemetrySection `koanf:"telemetry"`
	Log       LogSection       `koanf:"log"`
}

// ServerSection configures the HTTP listener.
type ServerSection struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// WorldSection configures the served world.
type WorldSection struct {
	// Fixture is the YAML file describing the world.
	Fixture string `koanf:"fixture"`

	// Watch reloads the fixture when the file changes.
	Watch bool `koanf:"watch"`

	// MaxPageSize caps ranges and id lists per request; 0 means unlimited.
	MaxPageSize int `koanf:"max_page_size"`
}

// SecuritySection configures access control.
type SecuritySection struct {
	// APIKeys are accepted bearer tokens in plain text. Prefer APIKeyHashes.
	APIKeys []string `koanf:"api_keys"`

	// APIKeyHashes are sha256 hex digests of accepted bearer tokens.
	APIKeyHashes []string `koanf:"api_key_hashes"`

	// RateLimit is requests per second per client IP; 0 disables it.
	RateLimit float64 `koanf:"rate_limit"`
	Burst     int     `koanf:"burst"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// AuthEnabled reports whether requests must carry an API key.
func (s SecuritySection) AuthEnabled() bool {
	return len(s.APIKeys) > 0 || len(s.APIKeyHashes) > 0
}

// TelemetrySection configures metrics and tracing.
type TelemetrySection struct {
	Metrics bool `koanf:"metrics"`

	// MetricsAllowList restricts /metrics to these IPs or CIDRs (empty = no restriction).
	MetricsAllowList []string `koanf:"metrics_allow_list"`

	// Audit logs one line per request.
	Audit bool `koanf:"audit"`

	Tracing tracer.Config `koanf:"tracing"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
