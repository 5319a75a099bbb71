package bulk

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mgorshkov/bulk/internal/adapters/batch"
	"github.com/mgorshkov/bulk/internal/adapters/input"
	"github.com/mgorshkov/bulk/internal/adapters/observability"
	"github.com/mgorshkov/bulk/internal/ports"
)

// ErrFeederClosed is returned when publishing after Close.
var ErrFeederClosed = errors.New("bulk: feeder closed")

// FeederConfig configures a programmatic producer over the batching chain.
type FeederConfig struct {
	// BatchSize is the flush threshold; required, at least 1.
	BatchSize int
	// Separator and Prefix override the flushed batch format.
	Separator string
	Prefix    string
	// DisableBlocks drops `{`/`}` recognition: delimiter tokens are then
	// batched like any other command text.
	DisableBlocks bool
	// Clock overrides the timestamp source.
	Clock func() time.Time
}

func (c *FeederConfig) applyDefaults() {
	if c.Separator == "" {
		c.Separator = batch.DefaultSeparator
	}
	if c.Prefix == "" {
		c.Prefix = batch.DefaultPrefix
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

func (c *FeederConfig) validate() error {
	if c.BatchSize < 1 {
		return batch.ErrInvalidSize
	}
	return nil
}

// Feeder lets an embedding service push command text through the same
// batching chain the CLI drives from standard input. Batches are delivered
// to the sink callback synchronously, inside Publish.
type Feeder struct {
	mu      sync.Mutex
	head    ports.Stage
	batcher ports.Closer
	clock   func() time.Time
	closed  bool
}

// NewFeeder wires block recognition + batcher + sink callback.
func NewFeeder(cfg *FeederConfig, sink CommandFunc) (*Feeder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink callback is required")
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	obs := observability.NewNop()
	batcher, err := batch.New(cfg.BatchSize, NewCallbackStage("feeder", sink), obs,
		batch.WithSeparator(cfg.Separator),
		batch.WithPrefix(cfg.Prefix))
	if err != nil {
		return nil, err
	}

	var head ports.Stage = batcher
	if !cfg.DisableBlocks {
		head = input.New(batcher, obs)
	}

	return &Feeder{
		head:    head,
		batcher: batcher,
		clock:   cfg.Clock,
	}, nil
}

// Publish feeds one command text into the chain. Block delimiter tokens are
// honored unless DisableBlocks was set.
func (f *Feeder) Publish(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFeederClosed
	}
	return f.head.Accept(Command{Text: text, Timestamp: f.clock()})
}

// Close flushes pending commands through the sink. Further publishes fail
// with ErrFeederClosed.
func (f *Feeder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.batcher.Close()
}
