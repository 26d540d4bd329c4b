package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/content-pulse/internal/storage"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage/inmem"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage/mongo"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage/pg"
)

// NewStore creates a storage.Store for the configured backend.
func NewStore(ctx context.Context, cfg *StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL config for storage type %s", cfg.Type)
		}

		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		return pg.NewStore(pool), nil

	case storage.Mongo:
		if cfg.Mongo == nil {
			return nil, fmt.Errorf("missing Mongo config for storage type %s", cfg.Type)
		}

		client, err := mongo.NewClient(ctx, *cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("failed to create Mongo client: %w", err)
		}

		return mongo.NewStore(client), nil

	case storage.InMem:
		return inmem.NewStore(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStore), cfg.Type)
	}
}
