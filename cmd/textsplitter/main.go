package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/crisiscore-systems/textsplitter/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	logger, err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		logger.Error("Error: " + err.Error())
		os.Exit(1)
	}
}
