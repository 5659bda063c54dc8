package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/HerbHall/timeshift/pkg/plugin"
)

// Entry is one recorded clock change.
type Entry struct {
	ID         string        `json:"id"`
	Topic      string        `json:"topic"`
	Source     string        `json:"source"`
	VirtualAt  time.Time     `json:"virtual_at"`
	RecordedAt time.Time     `json:"recorded_at"`
	Offset     time.Duration `json:"offset_ns"`
	Virtual    bool          `json:"virtual"`
}

// Repository persists journal entries.
type Repository interface {
	// Record stores e.
	Record(ctx context.Context, e Entry) error

	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int64, error)
}

// Compile-time interface guard.
var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository implements Repository on the shared store.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository runs the journal migrations and returns a repository.
func NewSQLiteRepository(ctx context.Context, store plugin.Store) (*SQLiteRepository, error) {
	if err := store.Migrate(ctx, "journal", migrations); err != nil {
		return nil, fmt.Errorf("journal migrations: %w", err)
	}
	return &SQLiteRepository{db: store.DB()}, nil
}

func (r *SQLiteRepository) Record(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, topic, source, virtual_at_ns, recorded_at_ns, offset_ns, virtual)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Topic, e.Source,
		e.VirtualAt.UnixNano(), e.RecordedAt.UnixNano(), int64(e.Offset), e.Virtual,
	)
	if err != nil {
		return fmt.Errorf("record entry %q: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, topic, source, virtual_at_ns, recorded_at_ns, offset_ns, virtual
		FROM journal_entries
		ORDER BY seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e                   Entry
			virtualAt, recorded int64
			offsetNS            int64
		)
		if err := rows.Scan(&e.ID, &e.Topic, &e.Source, &virtualAt, &recorded, &offsetNS, &e.Virtual); err != nil {
			return nil, fmt.Errorf("scan entry row: %w", err)
		}
		e.VirtualAt = time.Unix(0, virtualAt).UTC()
		e.RecordedAt = time.Unix(0, recorded).UTC()
		e.Offset = time.Duration(offsetNS)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM journal_entries`)
	if err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}
	return res.RowsAffected()
}

// Times are stored as integer nanoseconds so virtual instants far from
// the present round-trip exactly.
var migrations = []plugin.Migration{
	{
		Version:     1,
		Description: "create journal_entries table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE journal_entries (
					seq            INTEGER PRIMARY KEY AUTOINCREMENT,
					id             TEXT    NOT NULL UNIQUE,
					topic          TEXT    NOT NULL,
					source         TEXT    NOT NULL,
					virtual_at_ns  INTEGER NOT NULL,
					recorded_at_ns INTEGER NOT NULL,
					offset_ns      INTEGER NOT NULL,
					virtual        BOOLEAN NOT NULL
				)`)
			return err
		},
	},
}
