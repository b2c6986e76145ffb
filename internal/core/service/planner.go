package service

import (
	"context"
	"log/slog"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
)

// Category names an incrementally fetchable record set.
type Category string

const (
	CategoryTouched  Category = "touched_planet_ids"
	CategoryRevealed Category = "revealed_coords"
)

// planner issues fetches for the records the cache does not hold yet.
// The remote is trusted to skip exactly alreadyKnown records.
type planner struct {
	remote Remote
	sink   progress.Sink
	logger *slog.Logger
}

func (p *planner) fetchNewTouched(ctx context.Context, alreadyKnown int) ([]domain.EntityID, error) {
	p.logger.Debug("fetching new records", "category", CategoryTouched, "already_known", alreadyKnown)
	ids, err := p.remote.TouchedPlanetIDs(ctx, alreadyKnown, p.sink.Stream(progress.StreamPlanetIDs))
	if err != nil {
		return nil, remoteErr(progress.StreamPlanetIDs, err)
	}
	return ids, nil
}

func (p *planner) fetchNewRevealed(ctx context.Context, alreadyKnown int) ([]domain.RevealedCoords, error) {
	p.logger.Debug("fetching new records", "category", CategoryRevealed, "already_known", alreadyKnown)
	coords, err := p.remote.RevealedCoords(ctx, alreadyKnown,
		p.sink.Stream(progress.StreamRevealedPlanetIDs),
		p.sink.Stream(progress.StreamRevealedCoords))
	if err != nil {
		return nil, remoteErr(progress.StreamRevealedCoords, err)
	}
	return coords, nil
}

// mergeKnown appends fresh records after cached ones. The result length is
// always len(cached)+len(fresh).
func mergeKnown[T any](cached, fresh []T) []T {
	all := make([]T, 0, len(cached)+len(fresh))
	all = append(all, cached...)
	return append(all, fresh...)
}

// candidates keeps touched ids that are locally mined or revealed, in order.
func candidates(touched []domain.EntityID, mined map[domain.EntityID]struct{}, revealed map[domain.EntityID]domain.RevealedCoords) []domain.EntityID {
	out := make([]domain.EntityID, 0, len(touched))
	for _, id := range touched {
		_, isMined := mined[id]
		_, isRevealed := revealed[id]
		if isMined || isRevealed {
			out = append(out, id)
		}
	}
	return out
}

// includeOrigins appends the origin of every arrival to the candidate set
// and removes duplicates, keeping first appearance order.
func includeOrigins(cands []domain.EntityID, arrivals []domain.Arrival) []domain.EntityID {
	all := make([]domain.EntityID, 0, len(cands)+len(arrivals))
	all = append(all, cands...)
	for _, a := range arrivals {
		all = append(all, a.FromPlanet)
	}
	return dedup(all)
}

func dedup[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// inFlightArtifacts returns the distinct artifact ids carried by arrivals.
func inFlightArtifacts(arrivals []domain.Arrival) []domain.ArtifactID {
	ids := make([]domain.ArtifactID, 0)
	for _, a := range arrivals {
		if a.CarriesArtifact() {
			ids = append(ids, a.ArtifactID)
		}
	}
	return dedup(ids)
}

func remoteErr(stream string, err error) error {
	if domain.IsDomainError(err, domain.ErrResultMisaligned.Code) {
		return err
	}
	return domain.ErrRemoteFetch.WithDetails(stream).WithCause(err)
}

func cacheErr(what string, err error) error {
	return domain.ErrCacheRead.WithDetails(what).WithCause(err)
}
