// @title Quizdeck Interchange API
// @version 1.0
// @description Bulk import and export of quiz, flashcard and user data, image bundles and whole-database snapshots.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /
// @schemes http https
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizdeck/internal/adapter"
	"quizdeck/internal/cache"
	"quizdeck/internal/config"
	"quizdeck/internal/database"
	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/metrics"
	"quizdeck/internal/repository"
	"quizdeck/internal/server"
	"quizdeck/internal/supervisor"

	_ "quizdeck/cmd/api/docs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer func() { _ = logger.Sync() }()

	dbPath := cfg.DBPath()
	if err := database.Migrate(dbPath); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.String("path", dbPath), zap.Error(err))
	}

	store, err := repository.NewStore(dbPath, cfg.DB.BusyTimeout)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.String("path", dbPath), zap.Error(err))
	}
	appLogger.Info("Database opened", zap.String("path", dbPath))

	locker, redisClient := newLocker(cfg)

	app := server.New(cfg, server.Components{
		Store:      store,
		Locker:     locker,
		Supervisor: supervisor.NewProcessSupervisor(cfg.SnapshotCommand(), cfg.Snapshot.Args, dbPath, cfg.Snapshot.Timeout),
		Metrics:    metrics.New(prometheus.DefaultRegisterer),
		Gatherer:   prometheus.DefaultGatherer,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("Starting server", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		appLogger.Error("Failed to close database", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("Failed to close Redis client", zap.Error(err))
		}
	}
	appLogger.Info("Server exited")
}

// newLocker guards snapshot replacement with Redis when it is configured so
// that replicas sharing a database file exclude each other.
func newLocker(cfg *config.Config) (domain.Locker, *redis.Client) {
	appLogger := logger.Get()
	if cfg.Redis.Address == "" {
		appLogger.Info("Redis not configured, using in-process snapshot lock")
		return adapter.NewLocalLockAdapter(), nil
	}
	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis", zap.String("addr", cfg.Redis.Address))
	return adapter.NewRedisLockAdapter(client), client
}
