package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/worldsync/internal/cli/output"
	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
	"github.com/yndnr/worldsync/internal/core/service"
	"github.com/yndnr/worldsync/internal/remote"
	"github.com/yndnr/worldsync/internal/telemetry/metric"
	"github.com/yndnr/worldsync/internal/telemetry/tracer"
)

// SyncCommand returns the sync command.
func SyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Run one reconstruction pass and print a summary",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "persist",
				Usage: "Append newly fetched planet ids and revealed coordinates to the cache",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail the pass on any data anomaly",
			},
			&cli.BoolFlag{
				Name:    "save-snapshot",
				Aliases: []string{"s"},
				Usage:   "Write the snapshot to the snapshot directory",
			},
			&cli.StringFlag{
				Name:  "cache-backend",
				Usage: "Cache backend: badger or memory",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve /metrics on this address while the pass runs",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort the pass after this long (0 for no limit)",
			},
			&cli.StringFlag{
				Name:  "progress",
				Value: "auto",
				Usage: "Progress display: auto, bars, plain, none",
			},
			&cli.StringFlag{
				Name:  "show",
				Usage: "Also print one of: planets, moves, players, artifacts, anomalies",
			},
		},
		Action: runSync,
	}
}

type syncOptions struct {
	persist      bool
	strict       bool
	saveSnapshot bool
	backend      string
	metricsAddr  string
	timeout      time.Duration
	progress     string
	show         string
}

// syncOptionsFrom merges command flags over the sync config section.
func syncOptionsFrom(c *cli.Context, rt *runtime) syncOptions {
	opts := syncOptions{
		persist:      rt.cfg.Sync.Persist,
		strict:       rt.cfg.Sync.Strict,
		saveSnapshot: rt.cfg.Sync.SaveSnapshot,
		backend:      rt.cfg.Cache.Backend,
		metricsAddr:  rt.cfg.Metrics.Addr,
		timeout:      c.Duration("timeout"),
		progress:     c.String("progress"),
		show:         c.String("show"),
	}
	if c.IsSet("persist") {
		opts.persist = c.Bool("persist")
	}
	if c.IsSet("strict") {
		opts.strict = c.Bool("strict")
	}
	if c.IsSet("save-snapshot") {
		opts.saveSnapshot = c.Bool("save-snapshot")
	}
	if c.IsSet("cache-backend") {
		opts.backend = c.String("cache-backend")
	}
	if c.IsSet("metrics-addr") {
		opts.metricsAddr = c.String("metrics-addr")
	}
	return opts
}

// syncSummary is the printed result of a pass.
type syncSummary struct {
	RunID              string `json:"run_id"`
	Fingerprint        string `json:"fingerprint"`
	WorldRadius        int64  `json:"world_radius"`
	Players            int    `json:"players"`
	CachedTouched      int    `json:"cached_touched"`
	FetchedTouched     int    `json:"fetched_touched"`
	CachedRevealed     int    `json:"cached_revealed"`
	FetchedRevealed    int    `json:"fetched_revealed"`
	MinedPlanets       int    `json:"mined_planets"`
	Candidates         int    `json:"candidates"`
	LoadedPlanets      int    `json:"loaded_planets"`
	PendingMoves       int    `json:"pending_moves"`
	ArtifactsOnVoyages int    `json:"artifacts_on_voyages"`
	HeldArtifacts      int    `json:"held_artifacts"`
	Anomalies          int    `json:"anomalies"`
	Elapsed            string `json:"elapsed"`
	Persisted          bool   `json:"persisted"`
	Snapshot           string `json:"snapshot,omitempty"`
}

func newSyncSummary(snap *domain.Snapshot, elapsed time.Duration) *syncSummary {
	held := 0
	for _, arts := range snap.HeldArtifacts {
		held += len(arts)
	}
	s := snap.Stats
	return &syncSummary{
		RunID:              snap.RunID,
		Fingerprint:        snap.Fingerprint(),
		WorldRadius:        snap.WorldRadius,
		Players:            len(snap.Players),
		CachedTouched:      s.CachedTouched,
		FetchedTouched:     s.FetchedTouched,
		CachedRevealed:     s.CachedRevealed,
		FetchedRevealed:    s.FetchedRevealed,
		MinedPlanets:       s.MinedPlanets,
		Candidates:         s.Candidates,
		LoadedPlanets:      s.LoadedPlanets,
		PendingMoves:       len(snap.PendingMoves),
		ArtifactsOnVoyages: len(snap.ArtifactsOnVoyages),
		HeldArtifacts:      held,
		Anomalies:          len(snap.Anomalies),
		Elapsed:            elapsed.Round(time.Millisecond).String(),
	}
}

func runSync(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	opts := syncOptionsFrom(c, rt)
	if opts.show != "" {
		if _, err := showSection(&domain.Snapshot{}, opts.show); err != nil {
			return err
		}
	}
	log := rt.log.Slog()

	ctx := c.Context
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	tp, err := tracer.Setup(ctx, rt.cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("flush traces", "error", err)
		}
	}()

	reg := metric.NewRegistry()
	store, err := rt.openCache(opts.backend, reg)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.metricsAddr != "" {
		stop, err := serveMetrics(opts.metricsAddr, reg, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	client, err := remote.NewClient(rt.cfg.Gateway, remote.WithLogger(log))
	if err != nil {
		return err
	}

	sinks := []progress.Sink{reg.ProgressSink()}
	board := rt.newBoard(opts.progress)
	if board != nil {
		sinks = append(sinks, board)
		board.Start(150 * time.Millisecond)
		defer board.Stop()
	}

	dlOpts := []service.Option{
		service.WithProgress(progress.Multi(sinks...)),
		service.WithLogger(log),
		service.WithRunID(ulid.Make().String()),
	}
	if opts.strict {
		dlOpts = append(dlOpts, service.WithStrictIntegrity())
	}

	start := time.Now()
	snap, err := service.NewDownloader(store, client, dlOpts...).Download(ctx)
	elapsed := time.Since(start)
	reg.ObservePass(snap, elapsed, err)
	if board != nil {
		board.Stop()
	}
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	summary := newSyncSummary(snap, elapsed)
	if opts.persist {
		if err := service.Persist(ctx, store, snap); err != nil {
			return err
		}
		summary.Persisted = true
		log.Info("cache updated",
			"touched_planet_ids", len(snap.NewTouchedPlanetIDs),
			"revealed_coords", len(snap.NewRevealedCoords))
	}
	if opts.saveSnapshot {
		id, err := rt.saveSnapshot(snap)
		if err != nil {
			return err
		}
		summary.Snapshot = id
	}

	if err := rt.render(summary); err != nil {
		return err
	}
	if opts.show != "" {
		section, _ := showSection(snap, opts.show)
		return rt.render(section)
	}
	return nil
}

// newBoard returns nil when no progress should be drawn. Progress never
// mixes into structured output.
func (rt *runtime) newBoard(mode string) *output.Board {
	if mode == "none" || rt.format != output.FormatTable {
		return nil
	}
	if mode == "bars" || (mode == "auto" && isTerminal(rt.stderr)) {
		return output.NewBoard(rt.stderr, nil)
	}
	return output.NewBoard(rt.stderr, nil, output.Plain())
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func (rt *runtime) saveSnapshot(snap *domain.Snapshot) (string, error) {
	mgr, err := rt.openSnapshots()
	if err != nil {
		return "", err
	}

	var spin *output.Spinner
	if rt.format == output.FormatTable {
		spin = output.NewSpinner(rt.stderr, "writing snapshot")
		spin.Start()
	}
	info, err := mgr.Create(snap)
	if spin != nil {
		if err != nil {
			spin.Fail("snapshot failed")
		} else {
			spin.Success("snapshot " + info.ID)
		}
	}
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	if pruned, err := mgr.Prune(); err != nil {
		rt.log.Warn("prune snapshots", "error", err)
	} else if pruned > 0 {
		rt.log.Info("pruned old snapshots", "count", pruned)
	}
	return info.ID, nil
}

type planetRow struct {
	LocationID string  `json:"location_id"`
	Owner      string  `json:"owner"`
	Level      int     `json:"level"`
	Type       int     `json:"type"`
	Energy     float64 `json:"energy"`
	Silver     float64 `json:"silver"`
	Artifacts  int     `json:"artifacts"`
	Incoming   int     `json:"incoming"`
	Revealed   bool    `json:"revealed"`
	Updated    int64   `json:"last_updated" table:"wide"`
}

// showSection extracts one part of a snapshot for display.
func showSection(snap *domain.Snapshot, name string) (any, error) {
	switch name {
	case "planets":
		rows := make([]planetRow, 0, len(snap.LoadedPlanets))
		for _, id := range snap.LoadedPlanets {
			p, ok := snap.Planets[id]
			if !ok {
				continue
			}
			_, revealed := snap.RevealedCoordsMap[id]
			rows = append(rows, planetRow{
				LocationID: string(id),
				Owner:      string(p.Owner),
				Level:      p.PlanetLevel,
				Type:       int(p.PlanetType),
				Energy:     p.Energy,
				Silver:     p.Silver,
				Artifacts:  len(snap.HeldArtifacts[id]),
				Incoming:   len(snap.PlanetVoyageIDs[id]),
				Revealed:   revealed,
				Updated:    p.LastUpdated,
			})
		}
		return rows, nil
	case "moves":
		return snap.PendingMoves, nil
	case "players":
		players := make([]domain.Player, 0, len(snap.Players))
		for _, p := range snap.Players {
			players = append(players, p)
		}
		sort.Slice(players, func(i, j int) bool { return players[i].Address < players[j].Address })
		return players, nil
	case "artifacts":
		arts := append([]domain.Artifact(nil), snap.ArtifactsOnVoyages...)
		for _, id := range snap.LoadedPlanets {
			arts = append(arts, snap.HeldArtifacts[id]...)
		}
		return arts, nil
	case "anomalies":
		return snap.Anomalies, nil
	default:
		return nil, fmt.Errorf("unknown section %q (want planets, moves, players, artifacts or anomalies)", name)
	}
}
