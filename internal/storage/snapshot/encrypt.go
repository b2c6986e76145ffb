package snapshot

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/yndnr/worldsync/pkg/crypto/adaptive"
)

// Encryption errors.
var (
	ErrKeyTooShort         = errors.New("snapshot: encryption key too short (minimum 16 bytes)")
	ErrPassphraseTooWeak   = errors.New("snapshot: passphrase too weak (minimum 8 characters)")
	ErrPassphraseRequired  = errors.New("snapshot: snapshot is encrypted and no passphrase is configured")
	ErrDecryptionFailed    = errors.New("snapshot: decryption failed - wrong passphrase or corrupted data")
	ErrUnexpectedPlaintext = errors.New("snapshot: expected an encrypted snapshot")
)

const (
	// MinKeyLength is the minimum master key length for subkey derivation.
	MinKeyLength = 16

	// MinPassphraseLength is the minimum passphrase length.
	MinPassphraseLength = 8

	// SaltLength is the salt length used in key derivation.
	SaltLength = 16

	bodyKeyInfo = "worldsync snapshot body v1"
)

// KDFParams are the argon2id cost parameters. They are stored in each
// file header so files stay readable after the defaults change.
type KDFParams struct {
	Time      uint32 `json:"time" koanf:"time"`
	MemoryKiB uint32 `json:"memory_kib" koanf:"memory_kib"`
	Threads   uint8  `json:"threads" koanf:"threads"`
}

// DefaultKDFParams returns the argon2id parameters for new files.
func DefaultKDFParams() KDFParams {
	return KDFParams{Time: 3, MemoryKiB: 64 * 1024, Threads: 4}
}

// EncryptionConfig configures snapshot encryption.
type EncryptionConfig struct {
	// Passphrase enables encryption when non-empty.
	Passphrase []byte

	// Algorithm is an adaptive.CipherType; empty selects XChaCha20-Poly1305.
	Algorithm adaptive.CipherType

	KDF KDFParams
}

// Enabled reports whether encryption is configured.
func (c EncryptionConfig) Enabled() bool {
	return len(c.Passphrase) > 0
}

// ValidateConfig validates the encryption configuration.
func ValidateConfig(cfg EncryptionConfig) error {
	if !cfg.Enabled() {
		return nil
	}
	if len(cfg.Passphrase) < MinPassphraseLength {
		return ErrPassphraseTooWeak
	}
	switch cfg.Algorithm {
	case "", adaptive.CipherXChaCha20, adaptive.CipherAESGCM:
	default:
		return fmt.Errorf("snapshot: unsupported algorithm: %s", cfg.Algorithm)
	}
	return nil
}

// NewCipher derives the body key for one file and returns its cipher.
func NewCipher(cfg EncryptionConfig, salt []byte, params KDFParams) (adaptive.Cipher, error) {
	master := DeriveKeyFromPassphrase(cfg.Passphrase, salt, params)
	defer ZeroKey(master)

	key, err := DeriveSubkey(master, bodyKeyInfo, adaptive.KeySize)
	if err != nil {
		return nil, err
	}
	defer ZeroKey(key)

	return adaptive.NewWithType(key, cfg.Algorithm)
}

// NewSalt returns a random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("snapshot: generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKeyFromPassphrase derives a 32-byte master key with argon2id.
func DeriveKeyFromPassphrase(passphrase, salt []byte, p KDFParams) []byte {
	return argon2.IDKey(passphrase, salt, p.Time, p.MemoryKiB, p.Threads, 32)
}

// DeriveSubkey derives a purpose-bound subkey from a master key using HKDF.
func DeriveSubkey(masterKey []byte, info string, length int) ([]byte, error) {
	if len(masterKey) < MinKeyLength {
		return nil, ErrKeyTooShort
	}

	reader := hkdf.New(sha256.New, masterKey, nil, []byte(info))
	key := make([]byte, length)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("snapshot: derive subkey: %w", err)
	}
	return key, nil
}

// ZeroKey zeros a key in memory.
func ZeroKey(key []byte) {
	for i := range key {
		key[i] = 0
	}
}
