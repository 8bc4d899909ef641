package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deliberate/backend/internal/api/handler"
	"deliberate/backend/internal/appeal"
	"deliberate/backend/internal/config"
	"deliberate/backend/internal/events"
	"deliberate/backend/internal/logging"
	"deliberate/backend/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config, logger *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := storage.Open(cfg.DBDriver, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("failed to connect database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if err := storage.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Events are best effort, so the API still starts.
		logger.Warn("redis unreachable, events will fail until it recovers", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	logger.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, rdb := setupDependencies(cfg, logger)
	defer func() { _ = rdb.Close() }()

	store := storage.NewStorageService(db, logger)
	publisher := events.NewRedisPublisher(rdb, cfg.EventsChannel)

	appeals := appeal.NewService(store, store, publisher, logger)
	appeals.DefaultPageSize = cfg.DefaultPageSize
	appeals.MaxPageSize = cfg.MaxPageSize

	h := handler.NewHandler(appeals, logger)
	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        h.NewRouter(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
