package config

import (
	"time"

	"github.com/yndnr/worldsync/internal/telemetry/tracer"
)

// Default configuration values.
const (
	DefaultAddr              = "127.0.0.1:8590"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute
	DefaultShutdownTimeout   = 30 * time.Second

	DefaultFixture     = "world.yaml"
	DefaultMaxPageSize = 5000

	DefaultRateLimit = 200
	DefaultBurst     = 400

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultServiceName = "worldsync-gateway"
)

// Default returns the default gateway configuration.
func Default() *GatewayConfig {
	return &GatewayConfig{
		Server: ServerSection{
			Addr:              DefaultAddr,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			IdleTimeout:       DefaultIdleTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
		},
		World: WorldSection{
			Fixture:     DefaultFixture,
			Watch:       true,
			MaxPageSize: DefaultMaxPageSize,
		},
		Security: SecuritySection{
			RateLimit: DefaultRateLimit,
			Burst:     DefaultBurst,
		},
		Telemetry: TelemetrySection{
			Metrics: true,
			Audit:   true,
			Tracing: tracer.Config{ServiceName: DefaultServiceName},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
