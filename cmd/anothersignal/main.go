// Package main is the anothersignal command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeebeez/another-signal/internal/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := cli.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
