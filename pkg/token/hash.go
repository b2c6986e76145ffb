package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of key.
func Hash(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// Verify compares key against a stored digest in constant time.
func Verify(key, expectedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(Hash(key)), []byte(expectedHash)) == 1
}
