package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/HerbHall/timeshift/pkg/plugin"
)

func openMemory(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(context.Background(), "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var widgets = []plugin.Migration{
	{
		Version:     1,
		Description: "create widgets",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
			return err
		},
	},
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.Migrate(ctx, "test", widgets); err != nil {
			t.Fatalf("Migrate() pass %d error = %v", i, err)
		}
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM _migrations WHERE module = 'test'`).Scan(&count); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 1 {
		t.Errorf("applied migrations = %d, want 1", count)
	}
}

func TestMigrateFailureRollsBack(t *testing.T) {
	s := openMemory(t)
	bad := []plugin.Migration{{
		Version:     1,
		Description: "broken",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE TABLE half (id INTEGER)`); err != nil {
				return err
			}
			return errors.New("boom")
		},
	}}

	if err := s.Migrate(context.Background(), "bad", bad); err == nil {
		t.Fatal("Migrate() error = nil, want error")
	}
	var name string
	err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE name = 'half'`).Scan(&name)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("table half survived rollback: err = %v", err)
	}
}

func TestTxCommits(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	if err := s.Migrate(ctx, "test", widgets); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO widgets (name) VALUES ('a')`)
		return err
	})
	if err != nil {
		t.Fatalf("Tx() error = %v", err)
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM widgets`).Scan(&count); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 1 {
		t.Errorf("widgets = %d, want 1", count)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeshift.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", path, err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
