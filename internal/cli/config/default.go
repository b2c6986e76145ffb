package config

import (
	"os"
	"path/filepath"

	"github.com/yndnr/worldsync/internal/remote"
	"github.com/yndnr/worldsync/internal/storage"
	"github.com/yndnr/worldsync/internal/storage/snapshot"
	"github.com/yndnr/worldsync/internal/telemetry/logger"
	"github.com/yndnr/worldsync/internal/telemetry/tracer"
)

const (
	BackendBadger = "badger"
	BackendMemory = "memory"

	DefaultOutput      = "table"
	DefaultServiceName = "worldsync"
)

// DataDir returns the per-user data directory, ~/.worldsync.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".worldsync"
	}
	return filepath.Join(home, ".worldsync")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// Default returns the client configuration defaults.
func Default() *ClientConfig {
	return DefaultIn(DataDir())
}

// DefaultIn returns defaults with every directory under dataDir.
func DefaultIn(dataDir string) *ClientConfig {
	log := logger.DefaultConfig()
	log.Format = "text"
	log.Output = nil

	return &ClientConfig{
		Gateway: remote.DefaultConfig(),
		Cache: CacheSection{
			Backend: BackendBadger,
			Badger:  storage.DefaultBadgerConfig(filepath.Join(dataDir, "cache")),
		},
		Snapshot: SnapshotSection{
			Dir:            filepath.Join(dataDir, "snapshots"),
			RetentionCount: snapshot.DefaultRetentionCount,
			RetentionDays:  snapshot.DefaultRetentionDays,
		},
		Log:     log,
		Tracing: tracer.Config{ServiceName: DefaultServiceName},
		Output:  DefaultOutput,
	}
}
