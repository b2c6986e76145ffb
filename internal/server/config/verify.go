package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// Verify validates the configuration.
func Verify(cfg *GatewayConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyWorld(&cfg.World); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Addr == "" {
		return errors.New("server.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("server.addr %q: %w", cfg.Addr, err)
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return errors.New("server.tls_cert_file and server.tls_key_file must be set together")
	}
	for _, f := range []string{cfg.TLSCertFile, cfg.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
	}
	if cfg.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}
	return nil
}

func verifyWorld(cfg *WorldSection) error {
	if cfg.Fixture == "" {
		return errors.New("world.fixture is required")
	}
	info, err := os.Stat(cfg.Fixture)
	if err != nil {
		return fmt.Errorf("world.fixture: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("world.fixture %q is a directory", cfg.Fixture)
	}
	if cfg.MaxPageSize < 0 {
		return errors.New("world.max_page_size must not be negative")
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.RateLimit < 0 {
		return errors.New("security.rate_limit must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.Burst < 1 {
		return errors.New("security.burst must be at least 1 when rate limiting")
	}
	for _, h := range cfg.APIKeyHashes {
		if len(h) != 64 || strings.Trim(strings.ToLower(h), "0123456789abcdef") != "" {
			return fmt.Errorf("security.api_key_hashes: %q is not a sha256 hex digest", h)
		}
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Format) {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q must be json or text", cfg.Format)
	}
	return nil
}
