// Package main is the Lumina admin command line. It gates admin actions
// behind the shared password, stored either on the edge service or on this
// device depending on configuration.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
