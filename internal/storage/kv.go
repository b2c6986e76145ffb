package storage

import (
	"context"
	"io"
	"time"
)

// KVEngine is the embedded key-value store under the local cache.
// Implementations must be safe for concurrent use and durable across restarts.
type KVEngine interface {
	// Get returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	Set(ctx context.Context, key, value []byte) error

	Delete(ctx context.Context, key []byte) error

	// WriteBatch applies every entry atomically enough for append-only use:
	// a failure leaves no partially visible batch.
	WriteBatch(ctx context.Context, entries []KV) error

	// Scan visits keys with the given prefix in ascending order.
	// fn returns false to stop.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// DropPrefix removes every key with the given prefix.
	DropPrefix(ctx context.Context, prefix []byte) error

	// Backup writes a portable copy of the store.
	Backup(ctx context.Context, w io.Writer) error

	// Restore loads a copy produced by Backup into the store.
	Restore(ctx context.Context, r io.Reader) error

	// GC reclaims space; returns bytes reclaimed (approximate).
	GC(ctx context.Context) (uint64, error)

	Stats(ctx context.Context) (*KVStats, error)

	Close() error
}

// KV is one key-value pair.
type KV struct {
	Key   []byte
	Value []byte
}

// KVStats contains storage engine statistics.
type KVStats struct {
	TotalSize        uint64 `json:"total_size"`
	LSMSize          uint64 `json:"lsm_size"`
	ValueLogSize     uint64 `json:"value_log_size"`
	LastGCTime       int64  `json:"last_gc_time"` // Unix milliseconds
	GCBytesReclaimed uint64 `json:"gc_bytes_reclaimed"`
}

// BadgerConfig contains Badger tuning parameters.
type BadgerConfig struct {
	Dir string `koanf:"dir"`

	// InMemory keeps everything in RAM; Dir is ignored.
	InMemory bool `koanf:"in_memory"`

	GCInterval  time.Duration `koanf:"gc_interval"`
	GCThreshold float64       `koanf:"gc_threshold"` // discard ratio, 0.0-1.0

	CacheSize        int64 `koanf:"cache_size"`
	ValueLogFileSize int64 `koanf:"value_log_file_size"`
	NumMemtables     int   `koanf:"num_memtables"`

	SyncWrites bool `koanf:"sync_writes"`
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:              dir,
		GCInterval:       10 * time.Minute,
		GCThreshold:      0.5,
		CacheSize:        32 << 20,
		ValueLogFileSize: 256 << 20,
		NumMemtables:     2,
		SyncWrites:       true,
	}
}
