package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv engine closed")
)

// BadgerEngine implements KVEngine using Badger v3.
type BadgerEngine struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger *slog.Logger
	closed atomic.Bool

	lastGCTime       atomic.Int64 // Unix milliseconds
	gcBytesReclaimed atomic.Uint64

	metricsTotalSize   prometheus.Gauge
	metricsLSMSize     prometheus.Gauge
	metricsGCReclaimed prometheus.Counter

	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewBadgerEngine opens (or creates) a Badger store.
func NewBadgerEngine(cfg BadgerConfig, logger *slog.Logger) (*BadgerEngine, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir).
		WithLogger(&badgerLogger{logger: logger}).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites)
	if cfg.InMemory {
		opts.Dir, opts.ValueDir = "", ""
	}
	if cfg.CacheSize > 0 {
		opts = opts.WithBlockCacheSize(cfg.CacheSize)
	}
	if cfg.ValueLogFileSize > 0 {
		opts = opts.WithValueLogFileSize(cfg.ValueLogFileSize)
	}
	if cfg.NumMemtables > 0 {
		opts = opts.WithNumMemtables(cfg.NumMemtables)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	e := &BadgerEngine{
		db:     db,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		e.wg.Add(1)
		go e.gcLoop()
	}

	logger.Debug("badger engine opened", "dir", cfg.Dir, "in_memory", cfg.InMemory)
	return e, nil
}

// Get retrieves a value by key.
func (e *BadgerEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

// Set stores a key-value pair.
func (e *BadgerEngine) Set(ctx context.Context, key, value []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a key.
func (e *BadgerEngine) Delete(ctx context.Context, key []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// WriteBatch writes entries in one transaction, falling back to a
// badger.WriteBatch when the set exceeds a single transaction.
func (e *BadgerEngine) WriteBatch(ctx context.Context, entries []KV) error {
	if e.closed.Load() {
		return ErrClosed
	}
	err := e.db.Update(func(txn *badger.Txn) error {
		for _, kv := range entries {
			if err := txn.Set(kv.Key, kv.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if !errors.Is(err, badger.ErrTxnTooBig) {
		return err
	}

	wb := e.db.NewWriteBatch()
	defer wb.Cancel()
	for _, kv := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := wb.Set(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Scan iterates over keys with a given prefix.
func (e *BadgerEngine) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if !fn(item.KeyCopy(nil), value) {
				break
			}
		}
		return nil
	})
}

// DropPrefix removes every key with the given prefix.
func (e *BadgerEngine) DropPrefix(ctx context.Context, prefix []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.DropPrefix(prefix)
}

// Backup streams a full backup.
func (e *BadgerEngine) Backup(ctx context.Context, w io.Writer) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if _, err := e.db.Backup(w, 0); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

// Restore loads a backup. Existing keys not in the backup are kept.
func (e *BadgerEngine) Restore(ctx context.Context, r io.Reader) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := e.db.Load(r, 256); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

// GC runs value log GC until nothing more can be rewritten.
func (e *BadgerEngine) GC(ctx context.Context) (uint64, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}
	if e.cfg.InMemory {
		return 0, nil
	}
	start := time.Now()
	_, before := e.db.Size()

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		err := e.db.RunValueLogGC(e.cfg.GCThreshold)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("gc: %w", err)
		}
	}

	var reclaimed uint64
	if _, after := e.db.Size(); after < before {
		reclaimed = uint64(before - after)
	}

	e.lastGCTime.Store(time.Now().UnixMilli())
	e.gcBytesReclaimed.Add(reclaimed)
	if e.metricsGCReclaimed != nil {
		e.metricsGCReclaimed.Add(float64(reclaimed))
	}

	e.logger.Debug("gc completed", "bytes_reclaimed", reclaimed, "elapsed", time.Since(start))
	return reclaimed, nil
}

// Stats returns storage statistics.
func (e *BadgerEngine) Stats(ctx context.Context) (*KVStats, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	lsm, vlog := e.db.Size()
	return &KVStats{
		TotalSize:        uint64(lsm + vlog),
		LSMSize:          uint64(lsm),
		ValueLogSize:     uint64(vlog),
		LastGCTime:       e.lastGCTime.Load(),
		GCBytesReclaimed: e.gcBytesReclaimed.Load(),
	}, nil
}

// Close stops background work and closes the database.
func (e *BadgerEngine) Close() error {
	var err error
	e.stopOnce.Do(func() {
		close(e.stopCh)
		e.wg.Wait()
		e.closed.Store(true)
		if cerr := e.db.Close(); cerr != nil {
			err = fmt.Errorf("close db: %w", cerr)
		}
	})
	return err
}

// RegisterMetrics registers size and GC metrics on registry and keeps
// the gauges current until Close.
func (e *BadgerEngine) RegisterMetrics(registry prometheus.Registerer) *BadgerEngine {
	e.metricsTotalSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldsync",
		Subsystem: "cache",
		Name:      "total_size_bytes",
		Help:      "Local cache size in bytes (LSM + value log).",
	})
	e.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldsync",
		Subsystem: "cache",
		Name:      "lsm_size_bytes",
		Help:      "Local cache LSM tree size in bytes.",
	})
	e.metricsGCReclaimed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "worldsync",
		Subsystem: "cache",
		Name:      "gc_bytes_reclaimed_total",
		Help:      "Bytes reclaimed by value log GC.",
	})
	registry.MustRegister(e.metricsTotalSize, e.metricsLSMSize, e.metricsGCReclaimed)

	e.updateSizeMetrics()
	e.wg.Add(1)
	go e.metricsLoop()
	return e
}

func (e *BadgerEngine) updateSizeMetrics() {
	lsm, vlog := e.db.Size()
	e.metricsTotalSize.Set(float64(lsm + vlog))
	e.metricsLSMSize.Set(float64(lsm))
}

func (e *BadgerEngine) metricsLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.updateSizeMetrics()
		case <-e.stopCh:
			return
		}
	}
}

func (e *BadgerEngine) gcLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.GCInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := e.GC(ctx); err != nil {
				e.logger.Error("auto gc failed", "error", err)
			}
			cancel()
		case <-e.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
// Badger's info chatter is demoted to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}
