package service

import (
	"context"
	"fmt"

	"github.com/yndnr/worldsync/internal/core/domain"
)

// Persist appends the records a pass fetched from the remote to the cache,
// so the next pass starts where this one ended. Only the new suffixes are
// written; cached records are already there.
func Persist(ctx context.Context, w CacheWriter, snap *domain.Snapshot) error {
	if len(snap.NewTouchedPlanetIDs) > 0 {
		if err := w.AppendTouchedIDs(ctx, snap.NewTouchedPlanetIDs); err != nil {
			return fmt.Errorf("persist touched ids: %w", err)
		}
	}
	if len(snap.NewRevealedCoords) > 0 {
		if err := w.AppendRevealedCoords(ctx, snap.NewRevealedCoords); err != nil {
			return fmt.Errorf("persist revealed coords: %w", err)
		}
	}
	return nil
}
