package archive

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mgorshkov/bulk/internal/domain"
	"github.com/mgorshkov/bulk/internal/ports"
)

// PGArchive records every command that reaches it as a row in a Postgres
// table, keyed by a fresh uuid. It is meant to sit behind the batch processor
// so the archive holds one row per flushed batch.
type PGArchive struct {
	db    *sql.DB
	table string
	next  ports.Stage
	obs   ports.Observability
	newID func() string
}

func New(db *sql.DB, table string, next ports.Stage, obs ports.Observability) *PGArchive {
	return &PGArchive{
		db:    db,
		table: table,
		next:  next,
		obs:   obs,
		newID: func() string { return uuid.New().String() },
	}
}

func (a *PGArchive) Accept(cmd domain.Command) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (id, recorded_at, text) VALUES ($1,$2,$3) ON CONFLICT (id) DO NOTHING",
		a.table)

	if _, err := a.db.Exec(query, a.newID(), cmd.Timestamp, cmd.Text); err != nil {
		return fmt.Errorf("archive insert: %w", err)
	}
	a.obs.IncCounter("bulk_batches_archived_total", 1)

	if a.next == nil {
		return nil
	}
	return a.next.Accept(cmd)
}

func (a *PGArchive) StartBlock() error  { return nil }
func (a *PGArchive) FinishBlock() error { return nil }

var _ ports.Stage = (*PGArchive)(nil)
