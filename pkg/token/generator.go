package token

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// APIKeyPrefix marks worldsync gateway keys.
const APIKeyPrefix = "wsk_"

// DefaultLength is the random part's length in bytes.
const DefaultLength = 32

// Generate returns a new API key.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength returns an API key with length random bytes.
func GenerateWithLength(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return APIKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// IsAPIKey reports whether s has the API key shape.
func IsAPIKey(s string) bool {
	rest, ok := strings.CutPrefix(s, APIKeyPrefix)
	if !ok || rest == "" {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(rest)
	return err == nil
}
