package plugin

import (
	"context"
	"database/sql"
)

// Store is the shared database handed to modules that persist state.
type Store interface {
	// DB returns the underlying handle for direct queries.
	DB() *sql.DB

	// Tx runs fn in a transaction, committing when it returns nil.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Migrate applies the named module's pending migrations in order.
	Migrate(ctx context.Context, module string, migrations []Migration) error
}

// Migration is one forward-only schema step owned by a module.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}
