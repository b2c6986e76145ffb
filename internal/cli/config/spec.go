package config

import (
	"github.com/yndnr/worldsync/internal/remote"
	"github.com/yndnr/worldsync/internal/storage"
	"github.com/yndnr/worldsync/internal/telemetry/logger"
	"github.com/yndnr/worldsync/internal/telemetry/tracer"
)

// ClientConfig is the configuration of the worldsync client.
type ClientConfig struct {
	Gateway  remote.Config   `koanf:"gateway"`
	Cache    CacheSection    `koanf:"cache"`
	Snapshot SnapshotSection `koanf:"snapshot"`
	Sync     SyncSection     `koanf:"sync"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Log      logger.Config   `koanf:"log"`
	Tracing  tracer.Config   `koanf:"tracing"`

	// Output is the default output format: table, json or yaml.
	Output string `koanf:"output"`
}

// CacheSection configures the local cache.
type CacheSection struct {
	// Backend is badger or memory. The memory backend starts empty and
	// forgets everything when the process exits.
	Backend string `koanf:"backend"`

	Badger storage.BadgerConfig `koanf:"badger"`
}

// SnapshotSection configures snapshot files.
type SnapshotSection struct {
	Dir            string `koanf:"dir"`
	RetentionCount int    `koanf:"retention_count"`
	RetentionDays  int    `koanf:"retention_days"`

	// Passphrase enables encryption when set.
	Passphrase string `koanf:"passphrase"`
	// Algorithm is xchacha20-poly1305 (default) or aes-256-gcm.
	Algorithm string `koanf:"algorithm"`
}

// SyncSection holds the defaults of the sync command.
type SyncSection struct {
	// Persist appends newly fetched ids and coordinates to the cache.
	Persist bool `koanf:"persist"`

	// Strict fails the pass on any data anomaly.
	Strict bool `koanf:"strict"`

	// SaveSnapshot writes every reconstructed snapshot to Snapshot.Dir.
	SaveSnapshot bool `koanf:"save_snapshot"`
}

// MetricsSection exposes client metrics while a sync runs.
type MetricsSection struct {
	// Addr serves /metrics during sync when set.
	Addr string `koanf:"addr"`
}
