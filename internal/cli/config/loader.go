package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yndnr/worldsync/internal/infra/confloader"
)

// Load builds the client configuration. An empty path falls back to
// DefaultConfigPath, which may be absent; an explicit path must exist.
// overrides are dotted keys, usually the flags the user set.
func Load(path string, overrides map[string]any) (*ClientConfig, error) {
	cfg := Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	switch {
	case path != "":
		opts = append(opts, confloader.WithConfigFile(path))
	default:
		if _, err := os.Stat(DefaultConfigPath()); err == nil {
			opts = append(opts, confloader.WithConfigFile(DefaultConfigPath()))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat default config: %w", err)
		}
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
