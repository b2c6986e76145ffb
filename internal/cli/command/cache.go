package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/worldsync/internal/storage"
)

// CacheCommand returns the cache command group.
func CacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and maintain the local world cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show what the cache holds",
				Action: runCacheStats,
			},
			{
				Name:      "import",
				Usage:     "Append records from a YAML cache file",
				ArgsUsage: "<file>",
				Action:    runCacheImport,
			},
			{
				Name:      "export",
				Usage:     "Write the whole cache as a YAML cache file",
				ArgsUsage: "[file]",
				Action:    runCacheExport,
			},
			{
				Name:  "clear",
				Usage: "Remove every cached record",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: runCacheClear,
			},
			{
				Name:      "backup",
				Usage:     "Write a binary backup of the cache database",
				ArgsUsage: "<file>",
				Action:    runCacheBackup,
			},
			{
				Name:      "restore",
				Usage:     "Load a binary backup into the cache database",
				ArgsUsage: "<file>",
				Action:    runCacheRestore,
			},
			{
				Name:   "gc",
				Usage:  "Reclaim space from the cache value log",
				Action: runCacheGC,
			},
		},
	}
}

// cacheStats is the printed form of `cache stats`.
type cacheStats struct {
	Dir              string `json:"dir"`
	TouchedPlanetIDs int    `json:"touched_planet_ids"`
	RevealedCoords   int    `json:"revealed_coords"`
	Chunks           int    `json:"chunks"`
	MinedPlanets     int    `json:"mined_planets"`
	TotalSize        uint64 `json:"total_size"`
	LSMSize          uint64 `json:"lsm_size" table:"wide"`
	ValueLogSize     uint64 `json:"value_log_size" table:"wide"`
}

// withCache opens the badger cache for one maintenance action.
func withCache(c *cli.Context, fn func(rt *runtime, cs *storage.ChunkStore) error) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	cs, err := rt.openBadger(nil)
	if err != nil {
		return err
	}
	defer cs.Close()
	return fn(rt, cs)
}

func runCacheStats(c *cli.Context) error {
	return withCache(c, func(rt *runtime, cs *storage.ChunkStore) error {
		counts, err := cs.Counts(c.Context)
		if err != nil {
			return err
		}
		kv, err := cs.Engine().Stats(c.Context)
		if err != nil {
			return err
		}
		return rt.render(&cacheStats{
			Dir:              rt.cfg.Cache.Badger.Dir,
			TouchedPlanetIDs: counts.TouchedPlanetIDs,
			RevealedCoords:   counts.RevealedCoords,
			Chunks:           counts.Chunks,
			MinedPlanets:     counts.MinedPlanets,
			TotalSize:        kv.TotalSize,
			LSMSize:          kv.LSMSize,
			ValueLogSize:     kv.ValueLogSize,
		})
	})
}

func runCacheImport(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("cache file path required")
	}
	return withCache(c, func(rt *runtime, cs *storage.ChunkStore) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		file, err := storage.ReadCacheFile(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := cs.Import(c.Context, file); err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		counts, err := cs.Counts(c.Context)
		if err != nil {
			return err
		}
		rt.log.Info("cache imported", "file", path,
			"touched_planet_ids", len(file.TouchedPlanetIDs),
			"revealed_coords", len(file.RevealedCoords),
			"chunks", len(file.Chunks))
		return rt.render(counts)
	})
}

func runCacheExport(c *cli.Context) error {
	return withCache(c, func(rt *runtime, cs *storage.ChunkStore) error {
		path := c.Args().First()
		if path == "" || path == "-" {
			return cs.Export(c.Context, rt.stdout)
		}
		return writeFileAtomic(path, func(w io.Writer) error {
			return cs.Export(c.Context, w)
		})
	})
}

func runCacheClear(c *cli.Context) error {
	return withCache(c, func(rt *runtime, cs *storage.ChunkStore) error {
		if !c.Bool("force") {
			fmt.Fprintf(rt.stderr, "Clear every record in %s? [y/N]: ", rt.cfg.Cache.Badger.Dir)
			if !confirm(c.App.Reader) {
				fmt.Fprintln(rt.stderr, "Cancelled.")
				return nil
			}
		}
		if err := cs.Clear(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(rt.stdout, "Cache cleared.")
		return nil
	})
}

func runCacheBackup(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("backup file path required")
	}
	return withCache(c, func(rt *runtime, cs *storage.ChunkStore) error {
		if err := writeFileAtomic(path, func(w io.Writer) error {
			return cs.Engine().Backup(c.Context, w)
		}); err != nil {
			return err
		}
		fmt.Fprintf(rt.stdout, "Backup written to %s\n", path)
		return nil
	})
}

func runCacheRestore(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("backup file path required")
	}
	return withCache(c, func(rt *runtime, cs *storage.ChunkStore) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := cs.Engine().Restore(c.Context, f); err != nil {
			return err
		}
		fmt.Fprintf(rt.stdout, "Restored %s\n", path)
		return nil
	})
}

func runCacheGC(c *cli.Context) error {
	return withCache(c, func(rt *runtime, cs *storage.ChunkStore) error {
		reclaimed, err := cs.Engine().GC(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(rt.stdout, "Reclaimed %d bytes\n", reclaimed)
		return nil
	})
}

// writeFileAtomic writes through a temp file renamed into place, so a
// failed write never leaves a truncated file behind.
func writeFileAtomic(path string, fn func(io.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func confirm(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	line, _ := bufio.NewReader(r).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
