package bulk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mgorshkov/bulk/internal/adapters/archive"
	"github.com/mgorshkov/bulk/internal/adapters/batch"
	"github.com/mgorshkov/bulk/internal/adapters/console"
	"github.com/mgorshkov/bulk/internal/adapters/input"
	"github.com/mgorshkov/bulk/internal/adapters/observability"
	"github.com/mgorshkov/bulk/internal/adapters/publish"
	"github.com/mgorshkov/bulk/internal/adapters/report"
	"github.com/mgorshkov/bulk/internal/app/pipeline"
	"github.com/mgorshkov/bulk/internal/ports"
)

// ErrInvalidBatchSize is returned when the configured batch size is below 1.
var ErrInvalidBatchSize = batch.ErrInvalidSize

// RuntimeOption customizes the collaborators used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	in    io.Reader
	out   io.Writer
	obs   ports.Observability
	tail  ports.Stage
	clock func() time.Time
}

// WithInput reads commands from r instead of standard input.
func WithInput(r io.Reader) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.in = r
	}
}

// WithOutput sends console output to w instead of standard output.
func WithOutput(w io.Writer) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.out = w
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.obs = obs
	}
}

// WithTailStage appends a custom stage after the configured ones, receiving
// everything the report writer forwards.
func WithTailStage(s Stage) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.tail = s
	}
}

// WithClock overrides the timestamp source, pinning report file names and
// flush timestamps in tests.
func WithClock(clock func() time.Time) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.clock = clock
	}
}

// Runtime wires the input → batcher → console → report chain (plus the
// optional archive, publisher, and custom tail stages) and drives it from a
// line-delimited reader. The chain is fully synchronous; one line cascades
// through every stage before the next is read.
type Runtime struct {
	cfg     *Config
	obs     ports.Observability
	head    ports.Stage
	batcher *batch.Processor
	in      io.Reader
	clock   func() time.Time

	db         *sql.DB
	publisher  *publish.KafkaPublisher
	metricsSrv *http.Server
}

// NewRuntime assembles the forwarding chain from cfg. Stages are wired
// tail-first so every stage holds a plain non-owning reference to its
// downstream; the runtime owns all of them.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.obs
	if obs == nil {
		if cfg.Metrics.Addr != "" {
			obs = observability.NewPromObs()
		} else {
			obs = observability.NewNop()
		}
	}

	tail := overrides.tail

	var publisher *publish.KafkaPublisher
	if len(cfg.Publish.Brokers) > 0 {
		publisher = publish.NewKafka(cfg.Publish.Brokers, cfg.Publish.Topic, tail, obs)
		tail = publisher
	}

	var db *sql.DB
	if cfg.Archive.ConnString != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Archive.ConnString)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		tail = archive.New(db, cfg.Archive.Table, tail, obs)
	}

	var reportOpts []report.Option
	if cfg.Reports.Terminal {
		reportOpts = append(reportOpts, report.Terminal())
	}
	writer, err := report.New(cfg.Reports.Dir, tail, obs, reportOpts...)
	if err != nil {
		closeQuietly(db)
		return nil, err
	}

	out := console.New(overrides.out, writer)

	var batchOpts []batch.Option
	if cfg.Batch.Separator != "" {
		batchOpts = append(batchOpts, batch.WithSeparator(cfg.Batch.Separator))
	}
	if cfg.Batch.Prefix != "" {
		batchOpts = append(batchOpts, batch.WithPrefix(cfg.Batch.Prefix))
	}
	batcher, err := batch.New(cfg.Batch.Size, out, obs, batchOpts...)
	if err != nil {
		closeQuietly(db)
		return nil, err
	}

	var head ports.Stage = batcher
	if !cfg.Blocks.Disabled {
		head = input.New(batcher, obs)
	}

	in := overrides.in
	if in == nil {
		in = os.Stdin
	}
	clock := overrides.clock
	if clock == nil {
		clock = time.Now
	}

	return &Runtime{
		cfg:       cfg,
		obs:       obs,
		head:      head,
		batcher:   batcher,
		in:        in,
		clock:     clock,
		db:        db,
		publisher: publisher,
	}, nil
}

// Run drives the chain until end-of-input or context cancellation, then
// releases resources. The pipeline error, if any, is returned first.
func (r *Runtime) Run(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	r.startMetrics()

	runErr := pipeline.Run(ctx, r.in, r.head, r.batcher, r.clock, r.obs)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(runErr, r.Shutdown(shutdownCtx))
}

// Shutdown stops the metrics server and closes the publisher and archive
// connections.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
		r.metricsSrv = nil
	}

	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			errs = append(errs, err)
		}
		r.publisher = nil
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
		r.db = nil
	}

	return errors.Join(errs...)
}

func (r *Runtime) startMetrics() {
	if r.cfg.Metrics.Addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func(srv *http.Server) {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.obs.LogError("metrics_server_exited", err)
		}
	}(r.metricsSrv)
}

func closeQuietly(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}
