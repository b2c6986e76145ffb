package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yndnr/worldsync/internal/infra/confloader"
)

// Watcher serves a certificate pair and reloads it when either file
// changes. A failed reload keeps the previous certificate.
type Watcher struct {
	certFile string
	keyFile  string
	logger   *slog.Logger
	debounce time.Duration

	mu   sync.RWMutex
	cert *tls.Certificate

	reloadMu   sync.Mutex
	lastReload time.Time

	files *confloader.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = logger }
}

// WithDebounce drops change events closer together than d.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher loads the pair once. Call Start to follow changes.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   slog.Default(),
		debounce: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Start follows the certificate and key files in the background.
func (w *Watcher) Start() error {
	files, err := confloader.NewWatcher(confloader.WithWatcherLogger(w.logger))
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	for _, path := range []string{w.certFile, w.keyFile} {
		if err := files.Watch(path); err != nil {
			files.Stop()
			return fmt.Errorf("tlsroots: watch %s: %w", path, err)
		}
	}
	files.OnChange(func(string) {
		if err := w.debouncedReload(); err != nil {
			w.logger.Error("certificate reload failed", "cert_file", w.certFile, "error", err)
		}
	})
	files.StartAsync()

	w.mu.Lock()
	w.files = files
	w.mu.Unlock()
	w.logger.Info("watching certificate", "cert_file", w.certFile, "key_file", w.keyFile)
	return nil
}

// Stop stops following changes. Safe to call without Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	files := w.files
	w.files = nil
	w.mu.Unlock()
	if files != nil {
		files.Stop()
	}
}

// GetCertificate implements tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert, nil
}

// ServerTLS returns a server configuration backed by the watcher.
func (w *Watcher) ServerTLS() *tls.Config {
	return &tls.Config{
		GetCertificate: w.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

// Reload reads the pair from disk now.
func (w *Watcher) Reload() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("tlsroots: load key pair: %w", err)
	}
	w.mu.Lock()
	w.cert = &cert
	w.mu.Unlock()
	w.logger.Info("certificate loaded", "cert_file", w.certFile)
	return nil
}

func (w *Watcher) debouncedReload() error {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	now := time.Now()
	if now.Sub(w.lastReload) < w.debounce {
		return nil
	}
	w.lastReload = now

	// Writers often replace the cert and the key in two steps.
	time.Sleep(100 * time.Millisecond)
	return w.Reload()
}
