// Command termhist prints histograms of the most frequent terms found in the
// files under one or more paths.
//
// Usage:
//
//	termhist [-p pattern] [-x exclude] [-n count] [-s stacked|tabular|grid] [path...]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
