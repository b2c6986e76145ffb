package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/worldsync/internal/cli/config"
	"github.com/yndnr/worldsync/internal/cli/output"
	"github.com/yndnr/worldsync/internal/infra/buildinfo"
	"github.com/yndnr/worldsync/internal/telemetry/logger"
)

const runtimeKey = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "worldsync",
		Usage:                "Reconstruct world state from a local cache and a worldsync gateway",
		Version:              buildinfo.String(),
		HideVersion:          true,
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			SyncCommand(),
			CacheCommand(),
			SnapshotCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: setup,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.worldsync/config.yaml when present)",
			EnvVars: []string{"WORLDSYNC_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "gateway",
			Aliases: []string{"g"},
			Usage:   "Gateway base URL, e.g. http://127.0.0.1:8590",
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "Gateway API key (prefer WORLDSYNC_GATEWAY__API_KEY)",
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "Local cache directory",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log at debug level",
		},
	}
}

// flagOverrides maps the global flags the user set to config keys, so they
// win over the file and the environment.
func flagOverrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	if c.IsSet("gateway") {
		out["gateway.endpoint"] = c.String("gateway")
	}
	if c.IsSet("api-key") {
		out["gateway.api_key"] = c.String("api-key")
	}
	if c.IsSet("cache-dir") {
		out["cache.badger.dir"] = c.String("cache-dir")
	}
	if c.IsSet("output") {
		out["output"] = c.String("output")
	}
	if c.Bool("verbose") {
		out["log.level"] = "debug"
	}
	return out
}

// runtime is what every action needs, built once in the Before hook.
type runtime struct {
	cfg    *config.ClientConfig
	log    logger.Logger
	format output.Format
	wide   bool
	stdout io.Writer
	stderr io.Writer
}

func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"), flagOverrides(c))
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	logCfg := cfg.Log
	logCfg.Output = c.App.ErrWriter
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[runtimeKey] = &runtime{
		cfg:    cfg,
		log:    log,
		format: format,
		wide:   c.Bool("wide"),
		stdout: c.App.Writer,
		stderr: c.App.ErrWriter,
	}
	return nil
}

func getRuntime(c *cli.Context) (*runtime, error) {
	rt, ok := c.App.Metadata[runtimeKey].(*runtime)
	if !ok {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

// render writes data to stdout in the selected format.
func (rt *runtime) render(data any) error {
	return output.NewFormatter(rt.format, rt.wide).Format(rt.stdout, data)
}
