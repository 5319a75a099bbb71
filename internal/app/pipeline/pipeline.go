package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mgorshkov/bulk/internal/domain"
	"github.com/mgorshkov/bulk/internal/ports"
)

// Run drives the forwarding chain: it reads newline-delimited commands from r
// until end-of-stream, wrapping each line as a command stamped by now and
// feeding it to head. Processing is fully synchronous; each command cascades
// through the whole chain before the next line is read, so all side effects
// are totally ordered by input line.
//
// At end-of-input (or context cancellation, treated the same way) the batcher
// is closed exactly once so pending commands are flushed. A stage error stops
// the loop immediately without a final flush: whatever the failing stage
// already consumed is not replayed.
func Run(ctx context.Context, r io.Reader, head ports.Stage, batcher ports.Closer, now func() time.Time, obs ports.Observability) error {
	if head == nil {
		return fmt.Errorf("pipeline head is nil")
	}
	if now == nil {
		now = time.Now
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), closeBatcher(batcher))
		default:
		}

		obs.IncCounter("bulk_commands_total", 1)
		cmd := domain.Command{Text: scanner.Text(), Timestamp: now()}
		if err := head.Accept(cmd); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Join(fmt.Errorf("read input: %w", err), closeBatcher(batcher))
	}
	return closeBatcher(batcher)
}

func closeBatcher(batcher ports.Closer) error {
	if batcher == nil {
		return nil
	}
	return batcher.Close()
}
