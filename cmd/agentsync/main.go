package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/klauern/agentsync/internal/cli"
	"github.com/klauern/agentsync/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, ui.StatusError("Error: "+err.Error()))
		os.Exit(cli.ExitCode(err))
	}
}
