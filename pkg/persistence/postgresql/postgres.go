// Package postgresql provides a PostgreSQL backed key-value store.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukex/timely/pkg/persistence/sqlbase"
	_ "github.com/lib/pq"
)

// Store implements persistence.Store for PostgreSQL.
type Store struct {
	*sqlbase.KeyValueStore
}

// NewStore connects to databaseURL, runs migrations and returns the store.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) (*Store, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	kv, err := sqlbase.NewKeyValueStore(ctx, logger, database, sqlbase.Postgres)
	if err != nil {
		_ = database.Close()

		return nil, err
	}

	return &Store{KeyValueStore: kv}, nil
}
