package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/yndnr/worldsync/internal/core/domain"
)

// Key layout. Sequenced prefixes use an 8-byte big-endian suffix so a
// prefix scan returns records in insertion order.
var (
	touchedPrefix  = []byte("touched/")
	revealedPrefix = []byte("revealed/")
	chunkPrefix    = []byte("chunk/")

	touchedCountKey  = []byte("meta/touched_count")
	revealedCountKey = []byte("meta/revealed_count")
)

// CacheCounts summarizes what the local cache holds.
type CacheCounts struct {
	TouchedPlanetIDs int `json:"touched_planet_ids" yaml:"touched_planet_ids"`
	RevealedCoords   int `json:"revealed_coords" yaml:"revealed_coords"`
	Chunks           int `json:"chunks" yaml:"chunks"`
	MinedPlanets     int `json:"mined_planets" yaml:"mined_planets"`
}

// ChunkStore is the local world cache: touched planet ids and revealed
// coordinates in the order they were first seen, and mined chunks keyed
// by footprint.
type ChunkStore struct {
	kv     KVEngine
	enc    *zstd.Encoder
	dec    *zstd.Decoder
	logger *slog.Logger

	// mu serializes appends so sequence numbers stay dense.
	mu sync.Mutex
}

// NewChunkStore wraps an open KV engine. Close closes the engine too.
func NewChunkStore(kv KVEngine, logger *slog.Logger) (*ChunkStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &ChunkStore{kv: kv, enc: enc, dec: dec, logger: logger}, nil
}

// OpenCache opens a Badger-backed ChunkStore.
func OpenCache(cfg BadgerConfig, logger *slog.Logger) (*ChunkStore, error) {
	kv, err := NewBadgerEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	cs, err := NewChunkStore(kv, logger)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return cs, nil
}

// Engine returns the underlying KV engine.
func (s *ChunkStore) Engine() KVEngine {
	return s.kv
}

// SavedTouchedIDs implements service.Cache.
func (s *ChunkStore) SavedTouchedIDs(ctx context.Context) ([]domain.EntityID, error) {
	var ids []domain.EntityID
	err := s.kv.Scan(ctx, touchedPrefix, func(_, value []byte) bool {
		ids = append(ids, domain.EntityID(value))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("scan touched ids: %w", err)
	}
	return ids, nil
}

// SavedRevealedCoords implements service.Cache.
func (s *ChunkStore) SavedRevealedCoords(ctx context.Context) ([]domain.RevealedCoords, error) {
	var (
		out    []domain.RevealedCoords
		decErr error
	)
	err := s.kv.Scan(ctx, revealedPrefix, func(key, value []byte) bool {
		var rc domain.RevealedCoords
		if err := json.Unmarshal(value, &rc); err != nil {
			decErr = fmt.Errorf("decode revealed record %x: %w", key, err)
			return false
		}
		out = append(out, rc)
		return true
	})
	if err == nil {
		err = decErr
	}
	if err != nil {
		return nil, fmt.Errorf("scan revealed coords: %w", err)
	}
	return out, nil
}

// AllChunks implements service.Cache.
func (s *ChunkStore) AllChunks(ctx context.Context) ([]domain.Chunk, error) {
	var (
		out    []domain.Chunk
		decErr error
	)
	err := s.kv.Scan(ctx, chunkPrefix, func(key, value []byte) bool {
		c, err := s.decodeChunk(value)
		if err != nil {
			decErr = fmt.Errorf("decode chunk %s: %w", key[len(chunkPrefix):], err)
			return false
		}
		out = append(out, c)
		return true
	})
	if err == nil {
		err = decErr
	}
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	return out, nil
}

// AppendTouchedIDs implements service.CacheWriter.
func (s *ChunkStore) AppendTouchedIDs(ctx context.Context, ids []domain.EntityID) error {
	values := make([][]byte, len(ids))
	for i, id := range ids {
		values[i] = []byte(id)
	}
	return s.appendSeq(ctx, touchedPrefix, touchedCountKey, values)
}

// AppendRevealedCoords implements service.CacheWriter.
func (s *ChunkStore) AppendRevealedCoords(ctx context.Context, coords []domain.RevealedCoords) error {
	values := make([][]byte, len(coords))
	for i, rc := range coords {
		b, err := json.Marshal(rc)
		if err != nil {
			return fmt.Errorf("encode revealed record: %w", err)
		}
		values[i] = b
	}
	return s.appendSeq(ctx, revealedPrefix, revealedCountKey, values)
}

// PutChunks stores mined chunks, replacing any with the same footprint.
func (s *ChunkStore) PutChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	entries := make([]KV, 0, len(chunks))
	for _, c := range chunks {
		raw, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode chunk: %w", err)
		}
		key := append(append([]byte(nil), chunkPrefix...), c.Footprint.Key()...)
		entries = append(entries, KV{Key: key, Value: s.enc.EncodeAll(raw, nil)})
	}
	return s.kv.WriteBatch(ctx, entries)
}

// Counts reports the cache contents.
func (s *ChunkStore) Counts(ctx context.Context) (CacheCounts, error) {
	var c CacheCounts
	var err error
	if c.TouchedPlanetIDs, err = s.readCount(ctx, touchedCountKey); err != nil {
		return c, err
	}
	if c.RevealedCoords, err = s.readCount(ctx, revealedCountKey); err != nil {
		return c, err
	}
	chunks, err := s.AllChunks(ctx)
	if err != nil {
		return c, err
	}
	c.Chunks = len(chunks)
	c.MinedPlanets = len(domain.MinedSet(chunks))
	return c, nil
}

// Clear removes every cached record.
func (s *ChunkStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range [][]byte{touchedPrefix, revealedPrefix, chunkPrefix, []byte("meta/")} {
		if err := s.kv.DropPrefix(ctx, p); err != nil {
			return fmt.Errorf("clear %s: %w", p, err)
		}
	}
	s.logger.Info("local cache cleared")
	return nil
}

// Close releases the codecs and closes the KV engine.
func (s *ChunkStore) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		return err
	}
	return s.kv.Close()
}

func (s *ChunkStore) appendSeq(ctx context.Context, prefix, countKey []byte, values [][]byte) error {
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.readCount(ctx, countKey)
	if err != nil {
		return err
	}

	entries := make([]KV, 0, len(values)+1)
	for i, v := range values {
		entries = append(entries, KV{Key: seqKey(prefix, uint64(n+i)), Value: v})
	}
	entries = append(entries, KV{Key: countKey, Value: encodeUint64(uint64(n + len(values)))})

	if err := s.kv.WriteBatch(ctx, entries); err != nil {
		return fmt.Errorf("append %s: %w", prefix, err)
	}
	s.logger.Debug("cache records appended", "prefix", string(prefix), "count", len(values), "total", n+len(values))
	return nil
}

func (s *ChunkStore) readCount(ctx context.Context, key []byte) (int, error) {
	b, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("read %s: corrupt counter", key)
	}
	return int(binary.BigEndian.Uint64(b)), nil
}

func (s *ChunkStore) decodeChunk(value []byte) (domain.Chunk, error) {
	var c domain.Chunk
	raw, err := s.dec.DecodeAll(value, nil)
	if err != nil {
		return c, err
	}
	err = json.Unmarshal(raw, &c)
	return c, err
}

func seqKey(prefix []byte, n uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], n)
	return key
}

func encodeUint64(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
