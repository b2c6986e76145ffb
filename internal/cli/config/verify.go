package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/yndnr/worldsync/internal/storage/snapshot"
	"github.com/yndnr/worldsync/pkg/crypto/adaptive"
)

// Verify validates the configuration.
func Verify(cfg *ClientConfig) error {
	if err := cfg.Gateway.Validate(); err != nil {
		return err
	}
	if err := verifyCache(&cfg.Cache); err != nil {
		return err
	}
	if err := verifySnapshot(&cfg.Snapshot); err != nil {
		return err
	}
	if cfg.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return fmt.Errorf("metrics.addr %q: %w", cfg.Metrics.Addr, err)
		}
	}
	switch cfg.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output must be table, json or yaml, got %q", cfg.Output)
	}
	switch cfg.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", cfg.Log.Format)
	}
	if cfg.Tracing.SampleRatio < 0 {
		return errors.New("tracing.sample_ratio must not be negative")
	}
	return nil
}

func verifyCache(cfg *CacheSection) error {
	switch cfg.Backend {
	case BackendBadger:
		if cfg.Badger.Dir == "" && !cfg.Badger.InMemory {
			return errors.New("cache.badger.dir is required")
		}
		if cfg.Badger.GCThreshold < 0 || cfg.Badger.GCThreshold >= 1 {
			return errors.New("cache.badger.gc_threshold must be in [0, 1)")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("cache.backend must be %s or %s, got %q", BackendBadger, BackendMemory, cfg.Backend)
	}
	return nil
}

func verifySnapshot(cfg *SnapshotSection) error {
	if cfg.Dir == "" {
		return errors.New("snapshot.dir is required")
	}
	if cfg.RetentionCount < 0 || cfg.RetentionDays < 0 {
		return errors.New("snapshot retention must not be negative")
	}
	return snapshot.ValidateConfig(cfg.Encryption())
}

// Encryption converts the section to the snapshot encryption config.
func (s SnapshotSection) Encryption() snapshot.EncryptionConfig {
	return snapshot.EncryptionConfig{
		Passphrase: []byte(s.Passphrase),
		Algorithm:  adaptive.CipherType(s.Algorithm),
	}
}

// ManagerConfig converts the section to a snapshot manager config.
func (s SnapshotSection) ManagerConfig() snapshot.Config {
	cfg := snapshot.DefaultConfig(s.Dir)
	if s.RetentionCount > 0 {
		cfg.RetentionCount = s.RetentionCount
	}
	if s.RetentionDays > 0 {
		cfg.RetentionDays = s.RetentionDays
	}
	cfg.Encryption = s.Encryption()
	return cfg
}
