package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "WORLDSYNC_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	overrides map[string]any
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// WithOverrides applies dotted-key values after every other source.
// Typically the flags the user set explicitly.
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) { l.overrides = values }
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads file, environment and overrides, then unmarshals into target.
// Fields of target with no matching key keep their current value, so
// callers pass a struct pre-filled with defaults.
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return err
		}
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if len(l.overrides) > 0 {
		if err := l.LoadMap(l.overrides); err != nil {
			return err
		}
	}
	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile merges a YAML file.
func (l *Loader) LoadFile(path string) error {
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load config file %s: %w", path, err)
	}
	return nil
}

// LoadEnv merges environment variables carrying the loader prefix.
func (l *Loader) LoadEnv() error {
	provider := env.Provider(l.envPrefix, ".", func(s string) string {
		return EnvKey(l.envPrefix, s)
	})
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadMap merges dotted-key values.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// EnvKey maps an environment variable name to a config key:
// PREFIX_SYNC__SNAPSHOT_DIR becomes sync.snapshot_dir.
func EnvKey(prefix, name string) string {
	s := strings.ToLower(strings.TrimPrefix(name, prefix))
	return strings.ReplaceAll(s, "__", ".")
}

// String returns a loaded string value.
func (l *Loader) String(key string) string {
	return l.k.String(key)
}

// Exists reports whether any source set key.
func (l *Loader) Exists(key string) bool {
	return l.k.Exists(key)
}

// All returns all loaded configuration as a flat map.
func (l *Loader) All() map[string]any {
	return l.k.All()
}
