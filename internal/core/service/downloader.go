package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
	"github.com/yndnr/worldsync/internal/telemetry/tracer"
)

// Downloader runs reconstruction passes against one cache and one remote.
type Downloader struct {
	cache  Cache
	remote Remote
	sink   progress.Sink
	logger *slog.Logger
	strict bool
	runID  string
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithProgress sets the sink that receives per-stream progress.
func WithProgress(sink progress.Sink) Option {
	return func(d *Downloader) {
		if sink != nil {
			d.sink = sink
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithStrictIntegrity makes any data anomaly fail the pass with ErrDataIntegrity.
func WithStrictIntegrity() Option {
	return func(d *Downloader) { d.strict = true }
}

// WithRunID fixes the run id instead of generating a ULID per pass.
func WithRunID(id string) Option {
	return func(d *Downloader) { d.runID = id }
}

// NewDownloader creates a Downloader.
func NewDownloader(cache Cache, remote Remote, opts ...Option) *Downloader {
	d := &Downloader{
		cache:  cache,
		remote: remote,
		sink:   progress.Nop,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download performs one reconstruction pass. It returns a complete snapshot
// or an error; never both and never a partial snapshot. Cancel ctx to
// impose a deadline.
func (d *Downloader) Download(ctx context.Context) (*domain.Snapshot, error) {
	runID := d.runID
	if runID == "" {
		runID = ulid.Make().String()
	}
	logger := d.logger.With("run_id", runID)

	ctx, span := tracer.Start(ctx, "worldsync.download", attribute.String("run_id", runID))
	start := time.Now()

	logger.Info("reconstructing world state")
	snap, err := d.run(ctx, runID, logger)
	tracer.End(span, err)
	if err != nil {
		logger.Error("reconstruction failed",
			"error", err,
			"code", domain.GetErrorCode(err),
			"elapsed", time.Since(start))
		return nil, err
	}

	logger.Info("reconstruction complete",
		"loaded_planets", snap.Stats.LoadedPlanets,
		"arrivals", snap.Stats.Arrivals,
		"artifacts", snap.Stats.Artifacts,
		"anomalies", len(snap.Anomalies),
		"elapsed", time.Since(start))
	return snap, nil
}

// graph holds the root tasks of a pass. Everything downstream of them runs
// inside sequence, in the order the scoping dependencies dictate.
type graph struct {
	constants   *task[domain.Constants]
	worldRadius *task[int64]
	players     *task[map[domain.Address]domain.Player]

	cachedTouched  *task[[]domain.EntityID]
	cachedRevealed *task[[]domain.RevealedCoords]
	mined          *task[map[domain.EntityID]struct{}]

	newTouched  *task[[]domain.EntityID]
	newRevealed *task[[]domain.RevealedCoords]
}

func (d *Downloader) run(ctx context.Context, runID string, logger *slog.Logger) (*domain.Snapshot, error) {
	g, gctx := errgroup.WithContext(ctx)
	p := &planner{remote: d.remote, sink: d.sink, logger: logger}

	var gr graph

	// No dependents: issued first, joined only at assembly.
	gr.constants = spawn(g, func() (domain.Constants, error) {
		c, err := d.remote.Constants(gctx)
		if err != nil {
			return c, remoteErr("constants", err)
		}
		return c, nil
	})
	gr.worldRadius = spawn(g, func() (int64, error) {
		r, err := d.remote.WorldRadius(gctx)
		if err != nil {
			return 0, remoteErr("world_radius", err)
		}
		return r, nil
	})
	gr.players = spawn(g, func() (map[domain.Address]domain.Player, error) {
		players, err := d.remote.Players(gctx, d.sink.Stream(progress.StreamPlayers))
		if err != nil {
			return nil, remoteErr(progress.StreamPlayers, err)
		}
		return players, nil
	})

	gr.cachedTouched = spawn(g, func() ([]domain.EntityID, error) {
		ids, err := d.cache.SavedTouchedIDs(gctx)
		if err != nil {
			return nil, cacheErr("touched planet ids", err)
		}
		return ids, nil
	})
	gr.cachedRevealed = spawn(g, func() ([]domain.RevealedCoords, error) {
		coords, err := d.cache.SavedRevealedCoords(gctx)
		if err != nil {
			return nil, cacheErr("revealed coords", err)
		}
		return coords, nil
	})
	gr.mined = spawn(g, func() (map[domain.EntityID]struct{}, error) {
		chunks, err := d.cache.AllChunks(gctx)
		if err != nil {
			return nil, cacheErr("chunks", err)
		}
		return domain.MinedSet(chunks), nil
	})

	gr.newTouched = spawn(g, func() ([]domain.EntityID, error) {
		cached, err := gr.cachedTouched.wait(gctx)
		if err != nil {
			return nil, err
		}
		return p.fetchNewTouched(gctx, len(cached))
	})
	gr.newRevealed = spawn(g, func() ([]domain.RevealedCoords, error) {
		cached, err := gr.cachedRevealed.wait(gctx)
		if err != nil {
			return nil, err
		}
		return p.fetchNewRevealed(gctx, len(cached))
	})

	var snap *domain.Snapshot
	g.Go(func() error {
		s, err := d.sequence(gctx, runID, logger, &gr)
		snap = s
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// sequence runs the scoped fetches in dependency order and assembles the result.
func (d *Downloader) sequence(ctx context.Context, runID string, logger *slog.Logger, gr *graph) (*domain.Snapshot, error) {
	cachedTouched, err := gr.cachedTouched.wait(ctx)
	if err != nil {
		return nil, err
	}
	newTouched, err := gr.newTouched.wait(ctx)
	if err != nil {
		return nil, err
	}
	cachedRevealed, err := gr.cachedRevealed.wait(ctx)
	if err != nil {
		return nil, err
	}
	newRevealed, err := gr.newRevealed.wait(ctx)
	if err != nil {
		return nil, err
	}
	mined, err := gr.mined.wait(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Cache first, remote appended.
	allTouched := mergeKnown(cachedTouched, newTouched)
	allRevealed := mergeKnown(cachedRevealed, newRevealed)

	// 2. Revealed coordinate index for the candidate filter. Assemble
	// rebuilds it from AllRevealed and records the duplicate anomalies.
	revealedIdx, _ := indexRevealed(allRevealed)

	// 3. Candidates: touched and either mined or revealed.
	cands := candidates(allTouched, mined, revealedIdx)
	logger.Info("candidate planets selected",
		"touched", len(allTouched),
		"revealed", len(allRevealed),
		"mined", len(mined),
		"candidates", len(cands))

	// 4. Arrivals scoped to the candidates.
	arrivals, err := traced(ctx, "worldsync.arrivals", func(ctx context.Context) ([]domain.Arrival, error) {
		arr, err := d.remote.Arrivals(ctx, cands, d.sink.Stream(progress.StreamPendingMoves))
		if err != nil {
			return nil, remoteErr(progress.StreamPendingMoves, err)
		}
		return arr, nil
	})
	if err != nil {
		return nil, err
	}

	// 5. Origin inclusion, then dedup.
	loaded := includeOrigins(cands, arrivals)

	// 6. Full records for the loaded set.
	planets, err := traced(ctx, "worldsync.planets", func(ctx context.Context) (map[domain.EntityID]domain.Planet, error) {
		pl, err := d.remote.Planets(ctx, loaded,
			d.sink.Stream(progress.StreamPlanets),
			d.sink.Stream(progress.StreamPlanetMetadata))
		if err != nil {
			return nil, remoteErr(progress.StreamPlanets, err)
		}
		return pl, nil
	})
	if err != nil {
		return nil, err
	}

	// 7. Artifacts in flight and held, concurrently.
	ag, actx := errgroup.WithContext(ctx)
	onVoyages := spawn(ag, func() ([]domain.Artifact, error) {
		arts, err := d.remote.Artifacts(actx, inFlightArtifacts(arrivals), d.sink.Stream(progress.StreamArtifactsOnMoves))
		if err != nil {
			return nil, remoteErr(progress.StreamArtifactsOnMoves, err)
		}
		return arts, nil
	})
	held := spawn(ag, func() ([][]domain.Artifact, error) {
		arts, err := d.remote.ArtifactsOnPlanets(actx, loaded, d.sink.Stream(progress.StreamArtifactsOnPlanets))
		if err != nil {
			return nil, remoteErr(progress.StreamArtifactsOnPlanets, err)
		}
		return arts, nil
	})
	if err := ag.Wait(); err != nil {
		return nil, err
	}

	constants, err := gr.constants.wait(ctx)
	if err != nil {
		return nil, err
	}
	radius, err := gr.worldRadius.wait(ctx)
	if err != nil {
		return nil, err
	}
	players, err := gr.players.wait(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := Assemble(AssemblyInput{
		RunID:              runID,
		Constants:          constants,
		WorldRadius:        radius,
		Players:            players,
		AllTouched:         allTouched,
		AllRevealed:        allRevealed,
		NewTouched:         newTouched,
		NewRevealed:        newRevealed,
		Loaded:             loaded,
		Planets:            planets,
		Arrivals:           arrivals,
		ArtifactsOnVoyages: onVoyages.val,
		HeldArtifacts:      held.val,
	})
	if err != nil {
		return nil, err
	}

	snap.Stats.CachedTouched = len(cachedTouched)
	snap.Stats.FetchedTouched = len(newTouched)
	snap.Stats.CachedRevealed = len(cachedRevealed)
	snap.Stats.FetchedRevealed = len(newRevealed)
	snap.Stats.MinedPlanets = len(mined)
	snap.Stats.Candidates = len(cands)

	if err := d.checkIntegrity(logger, snap.Anomalies); err != nil {
		return nil, err
	}
	return snap, nil
}

func (d *Downloader) checkIntegrity(logger *slog.Logger, anomalies []domain.Anomaly) error {
	for _, a := range anomalies {
		logger.Warn("data integrity anomaly",
			"kind", a.Kind,
			"planet_id", a.PlanetID,
			"voyage_id", a.VoyageID)
	}
	if d.strict && len(anomalies) > 0 {
		a := anomalies[0]
		return domain.ErrDataIntegrity.WithDetails(
			fmt.Sprintf("%s (planet=%q voyage=%q), %d total", a.Kind, a.PlanetID, a.VoyageID, len(anomalies)))
	}
	return nil
}

func traced[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name)
	v, err := fn(ctx)
	tracer.End(span, err)
	return v, err
}
