package config

import "github.com/yndnr/worldsync/internal/telemetry/logger"

// Sanitize returns a copy with secrets masked, for display.
func Sanitize(cfg *ClientConfig) *ClientConfig {
	out := *cfg
	out.Log.Output = nil
	out.Gateway.APIKey = maskSecret(out.Gateway.APIKey)
	out.Snapshot.Passphrase = maskSecret(out.Snapshot.Passphrase)
	return &out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if r := logger.RedactString(s); r != s {
		return r
	}
	return "********"
}
