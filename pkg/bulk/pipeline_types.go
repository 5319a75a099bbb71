package bulk

import (
	"github.com/mgorshkov/bulk/internal/domain"
	"github.com/mgorshkov/bulk/internal/ports"
)

// Command is the unit flowing through the chain: one line of input text and
// the instant it was read. It mirrors internal/domain.Command so custom
// stages can reference it.
type Command = domain.Command

// Stage is one link of the forwarding chain. Custom tail stages implement it
// to receive flushed batches.
type Stage = ports.Stage

// Closer is implemented by buffering stages that must flush at end-of-input.
type Closer = ports.Closer

// Observability emits metrics/logs about commands, flushes, and reports.
type Observability = ports.Observability

// Field is a structured log/metric field used by Observability implementations.
type Field = ports.Field
