package confloader

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to individual files.
//
// Directories are watched rather than files so editors that replace a
// file by rename are still seen; events for other files in the same
// directory are dropped.
type Watcher struct {
	watcher   *fsnotify.Watcher
	files     map[string]struct{}
	callbacks []func(string)
	mu        sync.RWMutex
	done      chan struct{}
	stopOnce  sync.Once
	logger    *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = logger }
}

// NewWatcher creates a file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		files:   make(map[string]struct{}),
		done:    make(chan struct{}),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error("failed to watch directory", "path", dir, "error", err)
		return err
	}

	w.mu.Lock()
	w.files[abs] = struct{}{}
	w.mu.Unlock()

	w.logger.Debug("watching file for changes", "path", abs)
	return nil
}

// OnChange registers a callback receiving the path of a changed file.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start delivers events until Stop is called.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.watched(event.Name) {
				continue
			}
			w.logger.Debug("watched file changed", "file", event.Name, "op", event.Op.String())
			w.notify(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// StartAsync runs Start in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) notify(path string) {
	w.mu.RLock()
	cbs := make([]func(string), len(w.callbacks))
	copy(cbs, w.callbacks)
	w.mu.RUnlock()
	for _, cb := range cbs {
		cb(path)
	}
}
