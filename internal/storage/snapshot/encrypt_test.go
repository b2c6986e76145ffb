package snapshot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/yndnr/worldsync/pkg/crypto/adaptive"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     EncryptionConfig
		wantErr error
	}{
		{"disabled", EncryptionConfig{}, nil},
		{"ok", EncryptionConfig{Passphrase: []byte("long enough")}, nil},
		{"aes", EncryptionConfig{Passphrase: []byte("long enough"), Algorithm: adaptive.CipherAESGCM}, nil},
		{"weak", EncryptionConfig{Passphrase: []byte("short")}, ErrPassphraseTooWeak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateConfig(tt.cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateConfig() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateConfig(EncryptionConfig{Passphrase: []byte("long enough"), Algorithm: "des"}); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}

func TestNewCipher_SaltAndPassphraseBindKey(t *testing.T) {
	cfg := EncryptionConfig{Passphrase: []byte("passphrase-1")}
	salt := bytes.Repeat([]byte{1}, SaltLength)

	a, err := NewCipher(cfg, salt, fastKDF)
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := a.Encrypt([]byte("world"), nil)
	if err != nil {
		t.Fatal(err)
	}

	same, _ := NewCipher(cfg, salt, fastKDF)
	if _, err := same.Decrypt(sealed, nil); err != nil {
		t.Errorf("same passphrase and salt should decrypt: %v", err)
	}

	otherSalt, _ := NewCipher(cfg, bytes.Repeat([]byte{2}, SaltLength), fastKDF)
	if _, err := otherSalt.Decrypt(sealed, nil); err == nil {
		t.Error("different salt should not decrypt")
	}

	otherPass, _ := NewCipher(EncryptionConfig{Passphrase: []byte("passphrase-2")}, salt, fastKDF)
	if _, err := otherPass.Decrypt(sealed, nil); err == nil {
		t.Error("different passphrase should not decrypt")
	}
}

func TestDeriveSubkey(t *testing.T) {
	master := bytes.Repeat([]byte{7}, 32)
	a, err := DeriveSubkey(master, "a", 32)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := DeriveSubkey(master, "b", 32)
	if bytes.Equal(a, b) {
		t.Error("different info should give different subkeys")
	}
	if _, err := DeriveSubkey([]byte("short"), "a", 32); !errors.Is(err, ErrKeyTooShort) {
		t.Errorf("DeriveSubkey(short) error = %v", err)
	}
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewSalt()
	if len(a) != SaltLength || bytes.Equal(a, b) {
		t.Errorf("salts %x %x", a, b)
	}
}

func TestZeroKey(t *testing.T) {
	key := []byte{1, 2, 3}
	ZeroKey(key)
	if !bytes.Equal(key, []byte{0, 0, 0}) {
		t.Errorf("ZeroKey() left %v", key)
	}
}
