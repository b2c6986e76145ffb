package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the key length every supported cipher takes.
const KeySize = 32

// CipherType identifies the cipher algorithm.
type CipherType string

const (
	CipherXChaCha20 CipherType = "xchacha20-poly1305"
	CipherAESGCM    CipherType = "aes-256-gcm"
)

var (
	ErrInvalidKeySize     = fmt.Errorf("adaptive: key must be %d bytes", KeySize)
	ErrCiphertextTooShort = errors.New("adaptive: ciphertext too short")
)

// Cipher provides authenticated encryption.
type Cipher interface {
	Type() CipherType

	// Encrypt seals plaintext; additionalData is authenticated, not encrypted.
	Encrypt(plaintext, additionalData []byte) ([]byte, error)

	Decrypt(ciphertext, additionalData []byte) ([]byte, error)

	// Overhead is the nonce plus tag length added by Encrypt.
	Overhead() int
}

// New returns the default cipher.
func New(key []byte) (Cipher, error) {
	return NewWithType(key, CipherXChaCha20)
}

// NewWithType returns a cipher of the given type. An empty type selects
// the default.
func NewWithType(key []byte, typ CipherType) (Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	var (
		aead cipher.AEAD
		err  error
	)
	switch typ {
	case CipherXChaCha20, "":
		typ = CipherXChaCha20
		aead, err = chacha20poly1305.NewX(key)
	case CipherAESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(key); err == nil {
			aead, err = cipher.NewGCM(block)
		}
	default:
		return nil, fmt.Errorf("adaptive: unknown cipher type %q", typ)
	}
	if err != nil {
		return nil, err
	}
	return &aeadCipher{typ: typ, aead: aead}, nil
}

type aeadCipher struct {
	typ  CipherType
	aead cipher.AEAD
}

func (c *aeadCipher) Type() CipherType { return c.typ }

func (c *aeadCipher) Overhead() int {
	return c.aead.NonceSize() + c.aead.Overhead()
}

func (c *aeadCipher) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *aeadCipher) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(ciphertext) < n+c.aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	return c.aead.Open(nil, ciphertext[:n], ciphertext[n:], additionalData)
}
