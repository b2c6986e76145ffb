package config

import "strings"

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *GatewayConfig) *GatewayConfig {
	sanitized := *cfg

	if len(cfg.Security.APIKeys) > 0 {
		keys := make([]string, len(cfg.Security.APIKeys))
		for i, k := range cfg.Security.APIKeys {
			keys[i] = maskSecret(k)
		}
		sanitized.Security.APIKeys = keys
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
