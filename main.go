// Command videogen-gateway serves the text-to-video HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"videogen-gateway/cmd"
)

// Set with -ldflags "-X main.version=...". Falls back to module build info.
var version = ""

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx, os.Args[1:], cmd.BuildInfo{Version: version})
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "interrupted, server stopped")
		return 0
	default:
		fmt.Fprintf(os.Stderr, "videogen-gateway: %v\n", err)
		return 1
	}
}
