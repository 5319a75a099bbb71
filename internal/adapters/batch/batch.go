package batch

import (
	"errors"
	"strings"

	"github.com/mgorshkov/bulk/internal/domain"
	"github.com/mgorshkov/bulk/internal/ports"
)

// ErrInvalidSize is returned when a processor is constructed with a size
// threshold below 1, which would make the size comparison meaningless.
var ErrInvalidSize = errors.New("bulk: batch size must be at least 1")

const (
	// DefaultSeparator joins command texts inside a flushed batch.
	DefaultSeparator = ", "
	// DefaultPrefix marks a flushed batch on its way downstream.
	DefaultPrefix = "bulk: "
)

// Processor buffers commands and flushes them downstream as one synthetic
// command. A flush happens when the pending count reaches the size threshold,
// at either boundary of an explicit block, or at Close. While a block is open
// the size trigger is suspended and commands accumulate without bound.
type Processor struct {
	next      ports.Stage
	obs       ports.Observability
	size      int
	separator string
	prefix    string

	pending []domain.Command
	forced  bool
}

type Option func(*Processor)

// WithSeparator overrides the joiner placed between command texts.
func WithSeparator(sep string) Option {
	return func(p *Processor) { p.separator = sep }
}

// WithPrefix overrides the marker prepended to every flushed batch.
func WithPrefix(prefix string) Option {
	return func(p *Processor) { p.prefix = prefix }
}

func New(size int, next ports.Stage, obs ports.Observability, opts ...Option) (*Processor, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	p := &Processor{
		next:      next,
		obs:       obs,
		size:      size,
		separator: DefaultSeparator,
		prefix:    DefaultPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

func (p *Processor) Accept(cmd domain.Command) error {
	p.pending = append(p.pending, cmd)
	p.obs.SetGauge("bulk_pending_commands", float64(len(p.pending)))

	if !p.forced && len(p.pending) >= p.size {
		return p.flush()
	}
	return nil
}

// StartBlock flushes whatever is pending, even below the size threshold, so
// that a batch boundary always aligns with the block boundary.
func (p *Processor) StartBlock() error {
	p.forced = true
	return p.flush()
}

// FinishBlock flushes everything accumulated during the block, exactly once.
func (p *Processor) FinishBlock() error {
	p.forced = false
	return p.flush()
}

// Close flushes any pending commands. It must be called exactly once by the
// pipeline owner at end-of-input. An unterminated block is flushed as well,
// so no accepted command is ever silently dropped at shutdown.
func (p *Processor) Close() error {
	return p.flush()
}

func (p *Processor) flush() error {
	if len(p.pending) == 0 {
		return nil
	}

	texts := make([]string, len(p.pending))
	for i, cmd := range p.pending {
		texts[i] = cmd.Text
	}
	out := domain.Command{
		Text:      p.prefix + strings.Join(texts, p.separator),
		Timestamp: p.pending[0].Timestamp,
	}

	p.obs.IncCounter("bulk_batches_flushed_total", 1)
	p.obs.ObserveBatchSize("bulk_batch_size", float64(len(p.pending)))

	// Pending is cleared whether or not forwarding succeeds; a failed batch
	// is not retried.
	size := len(p.pending)
	p.pending = p.pending[:0]
	p.obs.SetGauge("bulk_pending_commands", 0)

	if p.next == nil {
		return nil
	}
	if err := p.next.Accept(out); err != nil {
		p.obs.LogError("batch_forward_failed", err,
			ports.Field{Key: "commands", Value: size})
		return err
	}
	return nil
}

var (
	_ ports.Stage  = (*Processor)(nil)
	_ ports.Closer = (*Processor)(nil)
)
