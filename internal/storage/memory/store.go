package memory

import (
	"context"
	"sync"

	"github.com/yndnr/worldsync/internal/core/domain"
)

// Store is an in-memory cache. Reads return copies so callers may keep
// or modify them freely.
type Store struct {
	mu       sync.RWMutex
	touched  []domain.EntityID
	revealed []domain.RevealedCoords
	chunks   map[string]domain.Chunk
	// order lists chunk keys in first-put order so AllChunks is stable.
	order []string
}

// Option configures the Store.
type Option func(*Store)

// WithTouchedIDs seeds touched planet ids.
func WithTouchedIDs(ids ...domain.EntityID) Option {
	return func(s *Store) { s.touched = append(s.touched, ids...) }
}

// WithRevealedCoords seeds revealed coordinates.
func WithRevealedCoords(coords ...domain.RevealedCoords) Option {
	return func(s *Store) { s.revealed = append(s.revealed, coords...) }
}

// WithChunks seeds mined chunks.
func WithChunks(chunks ...domain.Chunk) Option {
	return func(s *Store) {
		for _, c := range chunks {
			s.putChunk(c)
		}
	}
}

// New creates a Store.
func New(opts ...Option) *Store {
	s := &Store{chunks: make(map[string]domain.Chunk)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SavedTouchedIDs implements service.Cache.
func (s *Store) SavedTouchedIDs(ctx context.Context) ([]domain.EntityID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.EntityID, len(s.touched))
	copy(out, s.touched)
	return out, nil
}

// SavedRevealedCoords implements service.Cache.
func (s *Store) SavedRevealedCoords(ctx context.Context) ([]domain.RevealedCoords, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RevealedCoords, len(s.revealed))
	copy(out, s.revealed)
	return out, nil
}

// AllChunks implements service.Cache.
func (s *Store) AllChunks(ctx context.Context) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Chunk, 0, len(s.order))
	for _, key := range s.order {
		c := s.chunks[key]
		c.PlanetLocations = append([]domain.PlanetLocation(nil), c.PlanetLocations...)
		out = append(out, c)
	}
	return out, nil
}

// AppendTouchedIDs implements service.CacheWriter.
func (s *Store) AppendTouchedIDs(ctx context.Context, ids []domain.EntityID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = append(s.touched, ids...)
	return nil
}

// AppendRevealedCoords implements service.CacheWriter.
func (s *Store) AppendRevealedCoords(ctx context.Context, coords []domain.RevealedCoords) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revealed = append(s.revealed, coords...)
	return nil
}

// PutChunks stores chunks, replacing any with the same footprint.
func (s *Store) PutChunks(ctx context.Context, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.putChunk(c)
	}
	return nil
}

// Clear drops everything.
func (s *Store) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = nil
	s.revealed = nil
	s.chunks = make(map[string]domain.Chunk)
	s.order = nil
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) putChunk(c domain.Chunk) {
	key := c.Footprint.Key()
	if _, ok := s.chunks[key]; !ok {
		s.order = append(s.order, key)
	}
	s.chunks[key] = c
}
