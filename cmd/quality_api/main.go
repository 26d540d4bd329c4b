// Package main Content Pulse API
// @title Content Pulse API
// @version 1.0
// @description Content quality scoring and subscription gating for a publishing backend
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@contentpulse.dev
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/content-pulse/internal/quality"
	"github.com/DjordjeVuckovic/content-pulse/internal/router"
	"github.com/DjordjeVuckovic/content-pulse/internal/server"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage/factory"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage/inmem"
	redisactivity "github.com/DjordjeVuckovic/content-pulse/internal/storage/redis"
	"github.com/DjordjeVuckovic/content-pulse/internal/subscription"
	pkgserver "github.com/DjordjeVuckovic/content-pulse/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	heathChecker := pkgserver.NewOkHealthChecker()

	s := server.New(sCfg, heathChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Content Pulse API is running")
	})

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	store, err := factory.NewStore(s.Context(), cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create store", "error", err)
		os.Exit(1)
		return
	}

	var activity storage.ActivityTracker
	if cfg.RedisURL != "" {
		tracker, err := redisactivity.NewActivityTracker(s.Context(), redisactivity.Config{URL: cfg.RedisURL})
		if err != nil {
			slog.Error("Failed to create redis activity tracker", "error", err)
			os.Exit(1)
			return
		}
		defer tracker.Close()
		activity = tracker
		slog.Info("Redis activity tracking enabled")
	} else {
		activity = inmem.NewActivityTracker()
		slog.Info("REDIS_URL not set, using in-memory activity tracking")
	}

	var qualityOpts []quality.Option
	if cfg.WeightsPath != "" {
		weights, err := quality.LoadWeights(cfg.WeightsPath)
		if err != nil {
			slog.Error("Failed to load scoring weights", "error", err, "path", cfg.WeightsPath)
			os.Exit(1)
			return
		}
		qualityOpts = append(qualityOpts, quality.WithWeights(weights))
	}

	var subscriptionOpts []subscription.Option
	if cfg.AccessRulesPath != "" {
		rules, err := subscription.LoadAccessRules(cfg.AccessRulesPath)
		if err != nil {
			slog.Error("Failed to load access rules", "error", err, "path", cfg.AccessRulesPath)
			os.Exit(1)
			return
		}
		subscriptionOpts = append(subscriptionOpts, subscription.WithRules(rules))
	}

	qualityService := quality.NewService(store, qualityOpts...)
	subscriptionService := subscription.NewService(store, activity, subscriptionOpts...)

	qualityRouter := router.NewQualityRouter(s.Echo, qualityService)
	qualityRouter.Bind()

	subscriptionRouter := router.NewSubscriptionRouter(s.Echo, subscriptionService)
	subscriptionRouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	if err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
