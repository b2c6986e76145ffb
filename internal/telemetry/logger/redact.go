package logger

import (
	"log/slog"
	"strings"
)

// APIKeyPrefix marks gateway API keys; such values are partially masked.
const APIKeyPrefix = "wsk_"

var sensitiveKeyPatterns = []string{
	"password",
	"passphrase",
	"secret",
	"api_key",
	"apikey",
	"credential",
	"authorization",
	"bearer",
	"encryption_key",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if strings.HasPrefix(v, APIKeyPrefix) {
			return slog.String(a.Key, maskValue(v, APIKeyPrefix))
		}
		if v != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// maskValue keeps the prefix and three characters at each end of the body.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// RedactString masks an API key for display; other values pass through.
func RedactString(value string) string {
	if strings.HasPrefix(value, APIKeyPrefix) {
		return maskValue(value, APIKeyPrefix)
	}
	return value
}

// IsSensitiveKey reports whether an attribute key names secret content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, p := range sensitiveKeyPatterns {
		if strings.Contains(k, p) {
			return true
		}
	}
	return false
}
