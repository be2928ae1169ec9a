package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/persistence"
	"github.com/dukex/timely/pkg/persistence/postgresql"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"kv_entries", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Store, context.Context, string) {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("timely_test"),
			postgres.WithUsername("timely"),
			postgres.WithPassword("timely"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	store, err := postgresql.NewStore(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = store.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return store, ctx, databaseURL
}

func TestNewStore_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() { _ = db.Close() }()

	var version int
	err = db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	// Reopening must not re-apply migrations.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	again, err := postgresql.NewStore(ctx, logger, databaseURL)
	require.NoError(t, err)
	require.NoError(t, again.Close(ctx))
}

func TestStore_KeyValue(t *testing.T) {
	store, ctx, _ := setupTestDB(t)

	_, err := store.Get(ctx, "timely_backend_url")
	require.ErrorIs(t, err, persistence.ErrKeyNotFound)

	require.NoError(t, store.Put(ctx, "timely_backend_url", []byte("http://a")))
	require.NoError(t, store.Put(ctx, "timely_backend_url", []byte("http://b")))

	value, err := store.Get(ctx, "timely_backend_url")
	require.NoError(t, err)
	assert.Equal(t, "http://b", string(value))

	require.NoError(t, store.Delete(ctx, "timely_backend_url"))
	require.NoError(t, store.Delete(ctx, "timely_backend_url"))

	_, err = store.Get(ctx, "timely_backend_url")
	assert.True(t, persistence.IsKeyNotFound(err))

	assert.NoError(t, store.HealthCheck(ctx))
}

func TestStore_GraphRoundTrip(t *testing.T) {
	store, ctx, _ := setupTestDB(t)
	repo := persistence.New(store).GraphRepository()

	nodes := []*models.Node{
		{ID: "n1", Type: models.NodeTypeCondition, Title: "Condition (FCM Tokens)", Config: map[string]any{"tokens": "a\nb"}, Position: models.Position{X: 130, Y: 130}},
	}
	require.NoError(t, repo.SaveNodes(ctx, "s1", nodes))

	loaded, err := repo.Nodes(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, nodes, loaded)
}
