package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/timely/pkg/persistence"
	"github.com/dukex/timely/pkg/persistence/file"
	"github.com/dukex/timely/pkg/persistence/postgresql"
	"github.com/dukex/timely/pkg/persistence/redis"
	"github.com/dukex/timely/pkg/persistence/sqlite"
)

var supportedPersistenceProviders = []string{"file", "postgres", "postgresql", "redis", "rediss", "sqlite"}

// NewPersistence opens the store named by databaseURL. The scheme picks the
// backend; a URL without a known scheme is a directory for the file store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*persistence.Persistence, error) {
	store, err := newStore(ctx, logger, databaseURL)
	if err != nil {
		return nil, err
	}

	return persistence.New(store), nil
}

func newStore(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Store, error) {
	provider := parsePersistenceProvider(databaseURL)
	logger = logger.With("provider", provider)

	switch provider {
	case "postgres", "postgresql":
		store, err := postgresql.NewStore(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}

		return store, nil
	case "redis", "rediss":
		store, err := redis.NewStore(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}

		return store, nil
	case "sqlite":
		store, err := sqlite.NewStore(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}

		return store, nil
	default:
		return file.NewStore(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
