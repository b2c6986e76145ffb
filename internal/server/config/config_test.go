package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/worldsync/internal/infra/confloader"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte("world_radius: 1000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func validConfig(t *testing.T) *GatewayConfig {
	t.Helper()
	cfg := Default()
	cfg.World.Fixture = writeFixture(t)
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.World.MaxPageSize != DefaultMaxPageSize {
		t.Errorf("MaxPageSize = %d, want %d", cfg.World.MaxPageSize, DefaultMaxPageSize)
	}
	if !cfg.World.Watch {
		t.Error("fixture watching should be on by default")
	}
	if cfg.Security.AuthEnabled() {
		t.Error("auth should be off by default")
	}
	if cfg.Telemetry.Tracing.ServiceName != DefaultServiceName {
		t.Errorf("ServiceName = %q", cfg.Telemetry.Tracing.ServiceName)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Security.APIKeys = []string{"wsk_super-secret-key", "abc"}

	sanitized := Sanitize(cfg)

	if cfg.Security.APIKeys[0] != "wsk_super-secret-key" {
		t.Error("original config should not be modified")
	}
	if got := sanitized.Security.APIKeys[0]; got == cfg.Security.APIKeys[0] || len(got) != len(cfg.Security.APIKeys[0]) {
		t.Errorf("masked key = %q", got)
	}
	if sanitized.Security.APIKeys[1] != "****" {
		t.Errorf("short key should be fully masked, got %q", sanitized.Security.APIKeys[1])
	}
}

func TestSanitize_NoKeys(t *testing.T) {
	sanitized := Sanitize(Default())
	if sanitized.Security.APIKeys != nil {
		t.Errorf("APIKeys = %v, want nil", sanitized.Security.APIKeys)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a", "****"},
		{"abcd", "****"},
		{"abcde", "ab*de"},
		{"abcdef", "ab**ef"},
		{"1234567890", "12******90"},
	}

	for _, tt := range tests {
		if result := maskSecret(tt.input); result != tt.expected {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GatewayConfig)
		wantErr string
	}{
		{"valid", func(*GatewayConfig) {}, ""},
		{"empty addr", func(c *GatewayConfig) { c.Server.Addr = "" }, "server.addr"},
		{"bad addr", func(c *GatewayConfig) { c.Server.Addr = "localhost" }, "server.addr"},
		{"half tls", func(c *GatewayConfig) { c.Server.TLSCertFile = "cert.pem" }, "together"},
		{"missing tls files", func(c *GatewayConfig) {
			c.Server.TLSCertFile, c.Server.TLSKeyFile = "/nonexistent/cert.pem", "/nonexistent/key.pem"
		}, "tls file"},
		{"no fixture", func(c *GatewayConfig) { c.World.Fixture = "" }, "world.fixture"},
		{"missing fixture", func(c *GatewayConfig) { c.World.Fixture = "/nonexistent/world.yaml" }, "world.fixture"},
		{"fixture dir", func(c *GatewayConfig) { c.World.Fixture = os.TempDir() }, "directory"},
		{"negative page", func(c *GatewayConfig) { c.World.MaxPageSize = -1 }, "max_page_size"},
		{"negative rate", func(c *GatewayConfig) { c.Security.RateLimit = -1 }, "rate_limit"},
		{"zero burst", func(c *GatewayConfig) { c.Security.Burst = 0 }, "burst"},
		{"bad hash", func(c *GatewayConfig) { c.Security.APIKeyHashes = []string{"xyz"} }, "sha256"},
		{"good hash", func(c *GatewayConfig) {
			c.Security.APIKeyHashes = []string{strings.Repeat("ab", 32)}
		}, ""},
		{"bad log format", func(c *GatewayConfig) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	fixture := writeFixture(t)
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	content := "server:\n  addr: 0.0.0.0:9000\nworld:\n  fixture: " + fixture + "\n  max_page_size: 10\nsecurity:\n  api_keys: [wsk_abc]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WSGWTEST_LOG__LEVEL", "debug")

	cfg := Default()
	l := confloader.NewLoader(confloader.WithConfigFile(path), confloader.WithEnvPrefix("WSGWTEST_"))
	if err := l.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := Verify(cfg); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:9000" || cfg.World.MaxPageSize != 10 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, env should apply", cfg.Log.Level)
	}
	if !cfg.Security.AuthEnabled() {
		t.Error("auth should be enabled when api_keys is set")
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("defaults lost: ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
}
