package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/mgorshkov/bulk"
)

func main() {
	cfg := bulk.DefaultConfig()
	cfg.Batch.Size = 3

	flow, err := bulk.ConfFromConfig(cfg)
	if err != nil {
		log.Fatalf("build flow: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := flow.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("pipeline exited: %v", err)
	}
}
