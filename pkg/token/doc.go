// Package token generates and verifies gateway API keys.
//
// Keys look like wsk_<base64url>. The gateway stores only the SHA-256 hex
// digest of a key and compares digests in constant time.
package token
