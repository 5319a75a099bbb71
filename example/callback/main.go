package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mgorshkov/bulk/pkg/bulk"
)

func main() {
	cfg := bulk.DefaultConfig()
	cfg.Batch.Size = 2
	cfg.Reports.Terminal = false

	flow, err := bulk.ConfFromConfig(cfg)
	if err != nil {
		log.Fatalf("build flow: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	callback := func(cmd bulk.Command) error {
		fmt.Printf("%s %s\n", cmd.Timestamp.Format(time.RFC3339Nano), cmd.Text)
		return nil
	}

	input := strings.NewReader("one\ntwo\nthree\n")

	err = flow.
		StreamIN(bulk.StreamInReader(input)).
		Run(ctx, bulk.StreamOutCallback("stdout", callback))
	if err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
