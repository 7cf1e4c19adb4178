// Command icextract extracts the files of a Clickteam Install Creator installer.
//
// Usage:
//
//	icextract [flags] <installer> [output-dir]
//	icextract list [flags] <installer>
//
// Without an output directory, files go to a directory named after the
// installer, next to it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
