package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mgorshkov/bulk"
)

func main() {
	fs := flag.NewFlagSet("bulk", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to an optional YAML configuration file")
	reports := fs.String("reports", "", "Directory for report files (overrides config)")
	metrics := fs.String("metrics", "", "Prometheus listen address, e.g. :9100 (overrides config)")
	simple := fs.Bool("simple", false, "Disable {/} block recognition")
	fs.Usage = func() { printUsage(fs) }
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Bulk size is not specified.")
		os.Exit(1)
	}
	size, err := strconv.Atoi(fs.Arg(0))
	if err != nil || size < 1 {
		fmt.Fprintln(os.Stderr, "Invalid bulk size.")
		os.Exit(1)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Batch.Size = size
	if *reports != "" {
		cfg.Reports.Dir = *reports
	}
	if *metrics != "" {
		cfg.Metrics.Addr = *metrics
	}
	if *simple {
		cfg.Blocks.Disabled = true
	}

	rt, err := bulk.NewRuntime(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A mid-run I/O failure stops processing but still exits 0, matching the
	// tool's historical behavior.
	if err := rt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
}

func loadConfig(path string) (*bulk.Config, error) {
	if path == "" {
		return bulk.DefaultConfig(), nil
	}
	return bulk.LoadConfig(path)
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), `bulk — command batching pipeline

Reads commands from standard input, one per line, prints each one, groups
them into batches of <size>, and persists every batch to a timestamped
bulk<seconds>.log report file. {/} lines open and close explicit blocks that
force batch boundaries.

Usage:
  bulk [flags] <size>

Flags:
`)
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  printf 'a\nb\nc\nd\n' | bulk 3
  bulk -config ./data/config.yaml -metrics :9100 5
  bulk -simple -reports ./out 2
`)
}
