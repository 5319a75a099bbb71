package ports

import "github.com/mgorshkov/bulk/internal/domain"

// Stage is one link of the forwarding chain. Accept processes a command and
// cascades it downstream; StartBlock/FinishBlock signal block boundaries to
// stages that buffer. Stages that do not care about blocks return nil from
// both. A stage holds at most one non-owning downstream reference; with no
// downstream it silently drops whatever it would forward.
type Stage interface {
	Accept(cmd domain.Command) error
	StartBlock() error
	FinishBlock() error
}

// Closer is implemented by stages that buffer commands and must be told,
// exactly once, that input has ended so pending work can be flushed.
type Closer interface {
	Close() error
}
