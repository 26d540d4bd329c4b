package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/content-pulse/internal/storage/factory"
	"github.com/DjordjeVuckovic/content-pulse/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type QualityAPIConfig struct {
	StorageConfig   *factory.StorageConfig
	RedisURL        string
	WeightsPath     string
	AccessRulesPath string
}

func (as *AppConfig) Load() (*QualityAPIConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/quality_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	return &QualityAPIConfig{
		StorageConfig:   storageCfg,
		RedisURL:        os.Getenv("REDIS_URL"),
		WeightsPath:     os.Getenv("QUALITY_WEIGHTS_PATH"),
		AccessRulesPath: os.Getenv("ACCESS_RULES_PATH"),
	}, nil
}
