// Package main is the entry point for the tboard CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tboard/internal/backend"
	"tboard/internal/cli"
	"tboard/internal/commands"
)

func main() {
	// Cancel on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backend.NewService, backend.NewAuthenticator)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
