package service

import (
	"context"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
)

// Cache is the local record of previously observed world state.
// Reads have no network cost and no side effects.
type Cache interface {
	// SavedTouchedIDs returns every touched planet id known locally, in insertion order.
	SavedTouchedIDs(ctx context.Context) ([]domain.EntityID, error)

	// SavedRevealedCoords returns every revealed location known locally, in insertion order.
	SavedRevealedCoords(ctx context.Context) ([]domain.RevealedCoords, error)

	// AllChunks returns every locally mined chunk.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)
}

// CacheWriter persists newly fetched records so the next pass fetches less.
type CacheWriter interface {
	AppendTouchedIDs(ctx context.Context, ids []domain.EntityID) error
	AppendRevealedCoords(ctx context.Context, coords []domain.RevealedCoords) error
}

// Remote is the paginated query client of the authoritative world source.
// Implementations drive the given reporters; the pass never reports itself.
type Remote interface {
	// Constants returns the world-wide game parameters.
	Constants(ctx context.Context) (domain.Constants, error)

	// WorldRadius returns the current world radius.
	WorldRadius(ctx context.Context) (int64, error)

	// Players returns every player keyed by address.
	Players(ctx context.Context, r progress.Reporter) (map[domain.Address]domain.Player, error)

	// TouchedPlanetIDs returns touched planet ids, skipping the first startingAt.
	TouchedPlanetIDs(ctx context.Context, startingAt int, r progress.Reporter) ([]domain.EntityID, error)

	// RevealedCoords returns revealed locations, skipping the first startingAt.
	// idsR tracks the id listing and coordsR the coordinate lookup.
	RevealedCoords(ctx context.Context, startingAt int, idsR, coordsR progress.Reporter) ([]domain.RevealedCoords, error)

	// Arrivals returns the pending arrivals destined for any of the given planets.
	Arrivals(ctx context.Context, planets []domain.EntityID, r progress.Reporter) ([]domain.Arrival, error)

	// Planets returns full records for the given ids. Ids unknown to the
	// remote are absent from the result.
	Planets(ctx context.Context, ids []domain.EntityID, planetsR, metadataR progress.Reporter) (map[domain.EntityID]domain.Planet, error)

	// Artifacts returns the artifacts with the given ids.
	Artifacts(ctx context.Context, ids []domain.ArtifactID, r progress.Reporter) ([]domain.Artifact, error)

	// ArtifactsOnPlanets returns one artifact list per planet, aligned with ids.
	ArtifactsOnPlanets(ctx context.Context, ids []domain.EntityID, r progress.Reporter) ([][]domain.Artifact, error)
}
