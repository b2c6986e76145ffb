// Command worldsync rebuilds a consistent snapshot of the game world from
// the local cache and a worldsync gateway.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yndnr/worldsync/internal/cli/command"
	"github.com/yndnr/worldsync/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	if err := command.App().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
