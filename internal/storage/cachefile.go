package storage

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/worldsync/internal/core/domain"
)

// CacheFile is the YAML interchange form of the local cache, produced by
// external miners and by `worldsync cache export`.
type CacheFile struct {
	TouchedPlanetIDs []domain.EntityID       `yaml:"touched_planet_ids"`
	RevealedCoords   []domain.RevealedCoords `yaml:"revealed_coords"`
	Chunks           []domain.Chunk          `yaml:"chunks"`
}

// ReadCacheFile decodes a cache file.
func ReadCacheFile(r io.Reader) (*CacheFile, error) {
	var f CacheFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode cache file: %w", err)
	}
	return &f, nil
}

// Import appends the file's records to the cache.
func (s *ChunkStore) Import(ctx context.Context, f *CacheFile) error {
	if err := s.AppendTouchedIDs(ctx, f.TouchedPlanetIDs); err != nil {
		return err
	}
	if err := s.AppendRevealedCoords(ctx, f.RevealedCoords); err != nil {
		return err
	}
	return s.PutChunks(ctx, f.Chunks)
}

// Export writes the whole cache as YAML.
func (s *ChunkStore) Export(ctx context.Context, w io.Writer) error {
	var f CacheFile
	var err error
	if f.TouchedPlanetIDs, err = s.SavedTouchedIDs(ctx); err != nil {
		return err
	}
	if f.RevealedCoords, err = s.SavedRevealedCoords(ctx); err != nil {
		return err
	}
	if f.Chunks, err = s.AllChunks(ctx); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("encode cache file: %w", err)
	}
	return enc.Close()
}
