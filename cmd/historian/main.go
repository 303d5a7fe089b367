// cmd/historian/main.go runs the worker that moves game actions from Redis to Postgres.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/big2/internal/cache"
	"github.com/jason-s-yu/big2/internal/config"
	"github.com/jason-s-yu/big2/internal/database"
	"github.com/jason-s-yu/big2/internal/historian"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.PostgresURL())
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatalf("migrate: %v", err)
	}

	queue, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB, Queue: cfg.HistorianQueue})
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer queue.Close()

	logger.WithFields(logrus.Fields{
		"queue":      queue.Name(),
		"batch_size": cfg.HistorianBatchSize,
		"flush":      cfg.HistorianFlush,
	}).Info("starting historian")

	h := historian.New(queue, database.NewHistoryRepository(pool), logger, historian.Options{
		BatchSize:     cfg.HistorianBatchSize,
		FlushInterval: cfg.HistorianFlush,
		Inactivity:    cfg.GameInactivityTimeout,
	})
	if err := h.Run(ctx); err != nil {
		logger.WithError(err).Error("historian exited with unflushed records")
		os.Exit(1)
	}
}
