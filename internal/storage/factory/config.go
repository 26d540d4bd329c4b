package factory

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/content-pulse/internal/storage"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage/mongo"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage/pg"
)

type StorageConfig struct {
	storage.Type
	Pg    *pg.PoolConfig
	Mongo *mongo.ClientConfig
}

func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if storageType != storage.PG && storageType != storage.Mongo && storageType != storage.InMem {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.PG, storage.Mongo, storage.InMem})
	}

	var pgCfg *pg.PoolConfig
	if storageType == storage.PG {
		pgCfg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	}

	var mongoCfg *mongo.ClientConfig
	if storageType == storage.Mongo {
		mongoCfg = &mongo.ClientConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: os.Getenv("MONGO_DATABASE"),
		}
		if mongoCfg.URI == "" || mongoCfg.Database == "" {
			slog.Error("Mongo configuration is incomplete", "uri", mongoCfg.URI != "", "database", mongoCfg.Database)
			return nil, fmt.Errorf("mongo configuration is incomplete: uri or database is missing")
		}
	}

	return &StorageConfig{
		Type:  storageType,
		Pg:    pgCfg,
		Mongo: mongoCfg,
	}, nil
}
