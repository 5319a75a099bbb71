package input

import (
	"github.com/mgorshkov/bulk/internal/domain"
	"github.com/mgorshkov/bulk/internal/ports"
)

const (
	blockOpen  = "{"
	blockClose = "}"
)

// ConsoleInput is the front stage of the block-aware pipeline. It consumes
// the `{` and `}` delimiter tokens, tracking nesting depth, and signals only
// the outermost boundary downstream as StartBlock/FinishBlock. Delimiters
// never appear in any downstream command text.
type ConsoleInput struct {
	next  ports.Stage
	obs   ports.Observability
	depth int
}

func New(next ports.Stage, obs ports.Observability) *ConsoleInput {
	return &ConsoleInput{next: next, obs: obs}
}

func (c *ConsoleInput) Accept(cmd domain.Command) error {
	if c.next == nil {
		return nil
	}

	switch cmd.Text {
	case blockOpen:
		c.depth++
		c.obs.SetGauge("bulk_block_depth", float64(c.depth))
		if c.depth == 1 {
			return c.next.StartBlock()
		}
		return nil
	case blockClose:
		// An unmatched `}` is malformed input and ignored; depth never
		// goes negative.
		if c.depth == 0 {
			return nil
		}
		c.depth--
		c.obs.SetGauge("bulk_block_depth", float64(c.depth))
		if c.depth == 0 {
			return c.next.FinishBlock()
		}
		return nil
	default:
		return c.next.Accept(cmd)
	}
}

func (c *ConsoleInput) StartBlock() error  { return nil }
func (c *ConsoleInput) FinishBlock() error { return nil }

var _ ports.Stage = (*ConsoleInput)(nil)
