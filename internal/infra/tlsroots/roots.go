// Package tlsroots builds TLS configurations for gateway clients and keeps
// the gateway's serving certificate current as its files change.
package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned when PEM data holds no certificate.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM data")

// ClientConfig configures how a client verifies and authenticates to a
// TLS gateway. The zero value uses the system roots.
type ClientConfig struct {
	// CAFile adds PEM roots on top of the system pool.
	CAFile string `koanf:"ca_file"`

	// CertFile and KeyFile are the client certificate for mutual TLS.
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`

	// ServerName overrides the name checked against the gateway certificate.
	ServerName string `koanf:"server_name"`
}

// Enabled reports whether anything differs from the default transport.
func (c ClientConfig) Enabled() bool {
	return c != ClientConfig{}
}

// Validate checks that the client certificate pair is complete.
func (c ClientConfig) Validate() error {
	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("tlsroots: cert_file and key_file must be set together")
	}
	return nil
}

// Pool is a set of trusted roots.
type Pool struct {
	certPool *x509.CertPool
}

// NewPool returns a pool seeded with the system roots, or an empty pool
// where the platform has none.
func NewPool() *Pool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &Pool{certPool: pool}
}

// AddCertFile adds every certificate in a PEM file.
func (p *Pool) AddCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read %s: %w", path, err)
	}
	if err := p.AddCertPEM(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// AddCertPEM adds every CERTIFICATE block in data.
func (p *Pool) AddCertPEM(data []byte) error {
	added := 0
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		p.certPool.AddCert(cert)
		added++
	}
	if added == 0 {
		return ErrNoCertsFound
	}
	return nil
}

// Pool returns the underlying x509.CertPool.
func (p *Pool) Pool() *x509.CertPool {
	return p.certPool
}

// NewClientTLS builds the client side TLS configuration.
func NewClientTLS(cfg ClientConfig) (*tls.Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool := NewPool()
	if cfg.CAFile != "" {
		if err := pool.AddCertFile(cfg.CAFile); err != nil {
			return nil, err
		}
	}
	tc := &tls.Config{
		RootCAs:    pool.Pool(),
		ServerName: cfg.ServerName,
		MinVersion: tls.VersionTLS12,
	}
	if cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tlsroots: load client key pair: %w", err)
		}
		tc.Certificates = []tls.Certificate{cert}
	}
	return tc, nil
}
