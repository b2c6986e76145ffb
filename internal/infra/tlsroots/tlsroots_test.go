package tlsroots

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writePair writes a self-signed certificate for name and returns the
// cert and key paths.
func writePair(t *testing.T, dir, name string) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: name},
		DNSNames:              []string{name},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	certPath := filepath.Join(dir, "tls.crt")
	keyPath := filepath.Join(dir, "tls.key")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		t.Fatal(err)
	}
	return certPath, keyPath
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestPool_AddCertPEM(t *testing.T) {
	certPath, keyPath := writePair(t, t.TempDir(), "gateway.test")

	p := NewPool()
	if err := p.AddCertFile(certPath); err != nil {
		t.Fatalf("AddCertFile() error = %v", err)
	}
	if err := p.AddCertFile(keyPath); !errors.Is(err, ErrNoCertsFound) {
		t.Errorf("key file error = %v, want ErrNoCertsFound", err)
	}
	if err := p.AddCertFile(filepath.Join(t.TempDir(), "absent.pem")); err == nil {
		t.Error("missing file should fail")
	}
	if err := p.AddCertPEM([]byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n")); err == nil {
		t.Error("garbage certificate should fail")
	}
}

func TestNewClientTLS(t *testing.T) {
	certPath, keyPath := writePair(t, t.TempDir(), "gateway.test")

	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr bool
		check   func(t *testing.T, cfg ClientConfig)
	}{
		{name: "zero value", cfg: ClientConfig{}},
		{name: "custom ca", cfg: ClientConfig{CAFile: certPath, ServerName: "gateway.test"}},
		{name: "mutual tls", cfg: ClientConfig{CAFile: certPath, CertFile: certPath, KeyFile: keyPath}},
		{name: "half pair", cfg: ClientConfig{CertFile: certPath}, wantErr: true},
		{name: "key is not a ca", cfg: ClientConfig{CAFile: keyPath}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := NewClientTLS(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClientTLS() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tc.ServerName != tt.cfg.ServerName {
				t.Errorf("ServerName = %q", tc.ServerName)
			}
			if wantCerts := tt.cfg.CertFile != ""; (len(tc.Certificates) == 1) != wantCerts {
				t.Errorf("Certificates = %d", len(tc.Certificates))
			}
		})
	}

	if (ClientConfig{}).Enabled() || !(ClientConfig{CAFile: certPath}).Enabled() {
		t.Error("Enabled() mismatch")
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := writePair(t, dir, "one.test")

	w, err := NewWatcher(certPath, keyPath, WithLogger(quiet()), WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	first, _ := w.GetCertificate(nil)
	if w.ServerTLS().GetCertificate == nil {
		t.Fatal("ServerTLS() without GetCertificate")
	}

	writePair(t, dir, "two.test")
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		cur, _ := w.GetCertificate(nil)
		if !bytes.Equal(cur.Certificate[0], first.Certificate[0]) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("certificate was not reloaded")
}

func TestWatcher_BadPair(t *testing.T) {
	dir := t.TempDir()
	certPath, _ := writePair(t, dir, "one.test")
	if _, err := NewWatcher(certPath, certPath, WithLogger(quiet())); err == nil {
		t.Error("NewWatcher() should fail when the key is not a key")
	}

	w := &Watcher{}
	w.Stop()
}
