package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgorshkov/bulk/internal/domain"
	"github.com/mgorshkov/bulk/internal/ports"
)

// Writer persists each command's text to a file named from its timestamp,
// `bulk<unix-seconds>.log`, overwriting any previous file of the same name.
// Commands arriving within the same second overwrite each other, which is
// acceptable at the tool's batch cadence. A terminal writer ends the chain;
// a non-terminal one forwards the command after persisting it.
type Writer struct {
	dir      string
	terminal bool
	next     ports.Stage
	obs      ports.Observability
}

type Option func(*Writer)

// Terminal stops the chain at this writer even when a downstream stage is
// wired.
func Terminal() Option {
	return func(w *Writer) { w.terminal = true }
}

func New(dir string, next ports.Stage, obs ports.Observability, opts ...Option) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report dir: %w", err)
	}
	w := &Writer{dir: dir, next: next, obs: obs}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

func (w *Writer) Accept(cmd domain.Command) error {
	path := filepath.Join(w.dir, Filename(cmd))
	// Exact contents, no trailing newline.
	if err := os.WriteFile(path, []byte(cmd.Text), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	w.obs.IncCounter("bulk_reports_written_total", 1)

	if w.terminal || w.next == nil {
		return nil
	}
	return w.next.Accept(cmd)
}

func (w *Writer) StartBlock() error  { return nil }
func (w *Writer) FinishBlock() error { return nil }

// Filename derives the report file name from the command's timestamp.
func Filename(cmd domain.Command) string {
	return fmt.Sprintf("bulk%d.log", cmd.Timestamp.Unix())
}

var _ ports.Stage = (*Writer)(nil)
