package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/infra/database"
	kafkainfra "github.com/mykdolnyk/ban-review-website/internal/infra/kafka"
	"github.com/mykdolnyk/ban-review-website/internal/infra/logger"
	postgresrepo "github.com/mykdolnyk/ban-review-website/internal/repository/postgres"
	"github.com/mykdolnyk/ban-review-website/internal/usecase"
)

// One-shot sweep of stale active threads, intended to run from cron. Threads
// whose last activity is older than the age threshold close as unresolved.
func main() {
	_ = godotenv.Load()

	age := flag.Duration("age", 0, "close active threads idle longer than this (default from config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, zl)
	if err != nil {
		zl.Fatal("failed to init postgres", zap.Error(err))
	}
	defer pool.Close()

	repos := postgresrepo.NewRepositories(pool)
	publisher := kafkainfra.NewStubPublisher(zl)
	threads := usecase.NewThreadService(cfg.Thread, repos.Threads, repos.Messages, publisher, zl)

	start := time.Now()
	swept, err := threads.SweepOldThreads(ctx, *age)
	if err != nil {
		zl.Error("sweep aborted",
			zap.Int("swept", swept),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		os.Exit(1)
	}

	zl.Info("sweep completed",
		zap.Int("swept", swept),
		zap.Duration("elapsed", time.Since(start)),
	)
}
