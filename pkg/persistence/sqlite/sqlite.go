// Package sqlite provides an embedded SQLite backed key-value store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/timely/pkg/persistence/sqlbase"
	_ "modernc.org/sqlite"
)

// Store implements persistence.Store on a SQLite database file.
type Store struct {
	*sqlbase.KeyValueStore
}

// NewStore opens (creating if needed) the database at databaseURL. Both
// "sqlite://path/to.db" and a plain path are accepted.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) (*Store, error) {
	path := strings.TrimPrefix(databaseURL, "sqlite://")

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite allows a single writer.
	database.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		_, err = database.ExecContext(ctx, pragma)
		if err != nil {
			_ = database.Close()

			return nil, fmt.Errorf("failed to configure SQLite database: %w", err)
		}
	}

	kv, err := sqlbase.NewKeyValueStore(ctx, logger, database, sqlbase.SQLite)
	if err != nil {
		_ = database.Close()

		return nil, err
	}

	return &Store{KeyValueStore: kv}, nil
}
