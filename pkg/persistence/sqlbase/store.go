package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dukex/timely/pkg/persistence"
)

// Dialect captures the SQL differences between supported drivers.
type Dialect struct {
	Name        string
	Placeholder func(position int) string
}

// Postgres uses numbered placeholders.
var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(position int) string { return "$" + strconv.Itoa(position) },
}

// SQLite uses anonymous placeholders.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
}

// KeyValueMigrations returns the schema shared by SQL key-value stores.
func KeyValueMigrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS kv_entries (
				entry_key VARCHAR(255) PRIMARY KEY,
				entry_value TEXT NOT NULL,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
	}
}

// KeyValueStore implements persistence.Store on a single SQL table.
type KeyValueStore struct {
	db      *sql.DB
	logger  *slog.Logger
	dialect Dialect

	getSQL    string
	putSQL    string
	deleteSQL string
}

// NewKeyValueStore runs the key-value migrations on db and returns the store.
func NewKeyValueStore(ctx context.Context, logger *slog.Logger, db *sql.DB, dialect Dialect) (*KeyValueStore, error) {
	err := NewMigrationManager(logger, db, KeyValueMigrations()).RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	p := dialect.Placeholder

	return &KeyValueStore{
		db:      db,
		logger:  logger,
		dialect: dialect,
		getSQL:  "SELECT entry_value FROM kv_entries WHERE entry_key = " + p(1),
		putSQL: "INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (" + p(1) + ", " + p(2) + ", CURRENT_TIMESTAMP) " +
			"ON CONFLICT (entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = CURRENT_TIMESTAMP",
		deleteSQL: "DELETE FROM kv_entries WHERE entry_key = " + p(1),
	}, nil
}

// Get returns the value stored under key.
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string

	err := s.db.QueryRowContext(ctx, s.getSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrKeyNotFound
		}

		return nil, fmt.Errorf("failed to query %s: %w", key, err)
	}

	return []byte(value), nil
}

// Put upserts value under key.
func (s *KeyValueStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.putSQL, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}

	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.deleteSQL, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (s *KeyValueStore) HealthCheck(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping %s database: %w", s.dialect.Name, err)
	}

	return nil
}

// Close closes the database connection.
func (s *KeyValueStore) Close(_ context.Context) error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("failed to close %s database connection: %w", s.dialect.Name, err)
	}

	return nil
}
