package console

import (
	"fmt"
	"io"
	"os"

	"github.com/mgorshkov/bulk/internal/domain"
	"github.com/mgorshkov/bulk/internal/ports"
)

// Output prints each command as one newline-terminated line and forwards it
// unchanged.
type Output struct {
	w    io.Writer
	next ports.Stage
}

func New(w io.Writer, next ports.Stage) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{w: w, next: next}
}

func (o *Output) Accept(cmd domain.Command) error {
	if _, err := fmt.Fprintln(o.w, cmd.Text); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	if o.next == nil {
		return nil
	}
	return o.next.Accept(cmd)
}

func (o *Output) StartBlock() error  { return nil }
func (o *Output) FinishBlock() error { return nil }

var _ ports.Stage = (*Output)(nil)
