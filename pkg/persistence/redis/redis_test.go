//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/persistence"
	"github.com/dukex/timely/pkg/persistence/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) (*redis.Store, context.Context) {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	store, err := redis.NewStore(ctx, logger, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close(ctx)
		_ = container.Terminate(ctx)

		cancel()
	})

	return store, ctx
}

func TestStore_KeyValue(t *testing.T) {
	store, ctx := setupRedis(t)

	_, err := store.Get(ctx, "timely_backend_api_key")
	require.ErrorIs(t, err, persistence.ErrKeyNotFound)

	require.NoError(t, store.Put(ctx, "timely_backend_api_key", []byte("secret")))

	value, err := store.Get(ctx, "timely_backend_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret", string(value))

	require.NoError(t, store.Delete(ctx, "timely_backend_api_key"))
	require.NoError(t, store.Delete(ctx, "timely_backend_api_key"))

	_, err = store.Get(ctx, "timely_backend_api_key")
	assert.True(t, persistence.IsKeyNotFound(err))
	assert.NoError(t, store.HealthCheck(ctx))
}

func TestStore_SettingsDefaults(t *testing.T) {
	store, ctx := setupRedis(t)
	repo := persistence.New(store).SettingsRepository()

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)
}
