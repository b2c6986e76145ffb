// Command worldsync-gateway serves a world fixture over the worldsync
// query API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/worldsync/internal/infra/buildinfo"
	"github.com/yndnr/worldsync/internal/infra/confloader"
	"github.com/yndnr/worldsync/internal/infra/shutdown"
	"github.com/yndnr/worldsync/internal/server/config"
	"github.com/yndnr/worldsync/internal/server/gatewayserver"
	"github.com/yndnr/worldsync/internal/telemetry/logger"
	"github.com/yndnr/worldsync/internal/telemetry/tracer"
	"github.com/yndnr/worldsync/pkg/token"
)

// envPrefix keeps gateway settings apart from client settings.
const envPrefix = "WSGATEWAY_"

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	if err := app().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func app() *cli.App {
	return &cli.App{
		Name:        "worldsync-gateway",
		Usage:       "Serve a world fixture over the worldsync query API",
		Version:     buildinfo.String(),
		HideVersion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file",
				EnvVars: []string{envPrefix + "CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the gateway",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "Listen address"},
					&cli.StringFlag{Name: "fixture", Usage: "World fixture file"},
				},
				Action: serve,
			},
			{
				Name:  "keygen",
				Usage: "Generate an API key and the digest to put in security.api_key_hashes",
				Action: func(c *cli.Context) error {
					key, err := token.Generate()
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "key:  %s\nhash: %s\n", key, token.Hash(key))
					return nil
				},
			},
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(c *cli.Context) error {
					i := buildinfo.Get()
					fmt.Fprintf(c.App.Writer, "worldsync-gateway %s (commit %s, built %s, %s %s)\n",
						i.Version, i.Commit, i.BuildTime, i.GoVersion, i.Platform)
					return nil
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.GatewayConfig, error) {
	cfg := config.Default()

	overrides := make(map[string]any)
	if c.IsSet("addr") {
		overrides["server.addr"] = c.String("addr")
	}
	if c.IsSet("fixture") {
		overrides["world.fixture"] = c.String("fixture")
	}
	opts := []confloader.Option{
		confloader.WithEnvPrefix(envPrefix),
		confloader.WithOverrides(overrides),
	}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting worldsync-gateway",
		"version", info.Version,
		"commit", info.Commit,
		"fixture", cfg.World.Fixture,
		"auth", cfg.Security.AuthEnabled())
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	tp, err := tracer.Setup(c.Context, cfg.Telemetry.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	srv, err := gatewayserver.New(cfg, log.Slog())
	if err != nil {
		return err
	}

	h := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log.Slog())
	h.OnShutdown("tracing", tp.Shutdown)
	h.OnShutdown("http", srv.Shutdown)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		// The listener failed before any shutdown was requested.
		return errors.Join(err, h.Shutdown())
	case <-c.Context.Done():
	}

	if err := h.Shutdown(); err != nil {
		return err
	}
	if err := <-errc; err != nil {
		return err
	}
	log.Info("gateway stopped")
	return nil
}
