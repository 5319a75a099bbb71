package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mgorshkov/bulk"
)

func main() {
	cfg := bulk.DefaultConfig()
	cfg.Batch.Size = 3

	flow, err := bulk.ConfFromConfig(cfg)
	if err != nil {
		log.Fatalf("build flow: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stage, batches, closeBatches := bulk.NewChannelStage("fanout", 32)

	done := make(chan struct{})
	go fanoutWorker("ingest", batches, done)

	input := strings.NewReader("a\nb\nc\nd\n")

	err = flow.
		StreamIN(bulk.StreamInReader(input)).
		Run(ctx, bulk.StreamOutStage(stage))
	closeBatches()
	<-done
	if err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

func fanoutWorker(name string, batches <-chan bulk.Command, done chan<- struct{}) {
	defer close(done)
	for cmd := range batches {
		fmt.Printf("[%s] %s\n", name, cmd.Text)
	}
}
