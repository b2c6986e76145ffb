package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/worldsync/internal/cli/config"
)

// ConfigCommand returns the config command group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the effective client configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the merged configuration with secrets masked",
				Action: func(c *cli.Context) error {
					rt, err := getRuntime(c)
					if err != nil {
						return err
					}
					return rt.render(config.Sanitize(rt.cfg))
				},
			},
			{
				Name:  "path",
				Usage: "Print the configuration file in use",
				Action: func(c *cli.Context) error {
					rt, err := getRuntime(c)
					if err != nil {
						return err
					}
					path := c.String("config")
					if path == "" {
						path = config.DefaultConfigPath()
						if _, err := os.Stat(path); err != nil {
							fmt.Fprintf(rt.stdout, "%s (not present, using defaults)\n", path)
							return nil
						}
					}
					fmt.Fprintln(rt.stdout, path)
					return nil
				},
			},
		},
	}
}
