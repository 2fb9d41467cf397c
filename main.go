// Package main is the entry point for mcctl CLI
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/macroscoach/mcctl/cmd"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		os.Exit(cmd.HandleError(os.Stderr, err))
	}
}
