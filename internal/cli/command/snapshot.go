package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/worldsync/internal/cli/output"
	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/storage/snapshot"
)

// SnapshotCommand returns the snapshot command group.
func SnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Aliases: []string{"snap"},
		Usage:   "Manage saved world snapshots",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List saved snapshots, newest first",
				Action:  runSnapshotList,
			},
			{
				Name:      "show",
				Usage:     "Show a saved snapshot (the latest when no id is given)",
				ArgsUsage: "[id]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "show",
						Usage: "Print one of: planets, moves, players, artifacts, anomalies",
					},
				},
				Action: runSnapshotShow,
			},
			{
				Name:   "prune",
				Usage:  "Apply the retention policy now",
				Action: runSnapshotPrune,
			},
		},
	}
}

type snapshotRow struct {
	ID            string `json:"id"`
	Created       string `json:"created"`
	LoadedPlanets int    `json:"loaded_planets"`
	Arrivals      int    `json:"arrivals"`
	Artifacts     int    `json:"artifacts"`
	Players       int    `json:"players"`
	Anomalies     int    `json:"anomalies"`
	Encrypted     bool   `json:"encrypted"`
	Size          int64  `json:"size"`
	RunID         string `json:"run_id" table:"wide"`
	Fingerprint   string `json:"fingerprint" table:"wide"`
}

func newSnapshotRow(info *snapshot.Info) snapshotRow {
	return snapshotRow{
		ID:            info.ID,
		Created:       time.UnixMilli(info.CreatedAt).Format(time.DateTime),
		LoadedPlanets: info.LoadedPlanets,
		Arrivals:      info.Arrivals,
		Artifacts:     info.Artifacts,
		Players:       info.Players,
		Anomalies:     info.Anomalies,
		Encrypted:     info.Encrypted,
		Size:          info.Size,
		RunID:         info.RunID,
		Fingerprint:   info.Fingerprint,
	}
}

func runSnapshotList(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	mgr, err := rt.openSnapshots()
	if err != nil {
		return err
	}
	infos, err := mgr.List()
	if err != nil {
		return err
	}
	if rt.format != output.FormatTable {
		return rt.render(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(rt.stdout, "No snapshots.")
		return nil
	}
	rows := make([]snapshotRow, len(infos))
	for i, info := range infos {
		rows[i] = newSnapshotRow(info)
	}
	return rt.render(rows)
}

func runSnapshotShow(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	section := c.String("show")
	if section != "" {
		if _, err := showSection(&domain.Snapshot{}, section); err != nil {
			return err
		}
	}
	mgr, err := rt.openSnapshots()
	if err != nil {
		return err
	}

	var (
		snap *domain.Snapshot
		info *snapshot.Info
	)
	if id := c.Args().First(); id != "" {
		snap, info, err = mgr.Load(id)
	} else {
		snap, info, err = mgr.Latest()
	}
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshots):
		return fmt.Errorf("no snapshots in %s", rt.cfg.Snapshot.Dir)
	case err != nil:
		return err
	}

	if section != "" {
		data, _ := showSection(snap, section)
		return rt.render(data)
	}
	summary := newSyncSummary(snap, 0)
	summary.Elapsed = ""
	summary.Snapshot = info.ID
	return rt.render(summary)
}

func runSnapshotPrune(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	mgr, err := rt.openSnapshots()
	if err != nil {
		return err
	}
	n, err := mgr.Prune()
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.stdout, "Pruned %d snapshot(s)\n", n)
	return nil
}
