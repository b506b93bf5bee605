package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/infra/database"
	kafkainfra "github.com/mykdolnyk/ban-review-website/internal/infra/kafka"
	"github.com/mykdolnyk/ban-review-website/internal/infra/logger"
	redisinfra "github.com/mykdolnyk/ban-review-website/internal/infra/redis"
	"github.com/mykdolnyk/ban-review-website/internal/infra/security"
	postgresrepo "github.com/mykdolnyk/ban-review-website/internal/repository/postgres"
	redisrepo "github.com/mykdolnyk/ban-review-website/internal/repository/redis"
	"github.com/mykdolnyk/ban-review-website/internal/transport/http/middleware"
	"github.com/mykdolnyk/ban-review-website/internal/transport/http/routes"
	"github.com/mykdolnyk/ban-review-website/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	jwtManager, err := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init jwt manager: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	sessionStore := redisrepo.NewSessionRepository(redisClient.Client(), cfg.Redis.SessionPrefix)
	denylist := redisrepo.NewJTIDenylistRepository(redisClient.Client(), cfg.Redis.DenylistPrefix)
	loginAttempts := redisrepo.NewLoginAttemptRepository(redisClient.Client(), "")

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "support:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	threadService := usecase.NewThreadService(cfg.Thread, repos.Threads, repos.Messages, eventPublisher, log)
	identityService := usecase.NewIdentityService(repos.Requesters, repos.Threads, threadService)
	messageService := usecase.NewMessageService(repos.Threads, repos.Messages, usecase.NewAccessGuard())
	adminService := usecase.NewAdminService(cfg.Auth, repos.AdminUsers, repos.AdminNotes, loginAttempts, denylist, jwtManager)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		JWTManager:  jwtManager,
		Pool:        pool,
		Redis:       redisClient,
		Services: routes.ServiceSet{
			Identity: identityService,
			Threads:  threadService,
			Messages: messageService,
			Admins:   adminService,
		},
		Stores: routes.StoreSet{
			Sessions:   sessionStore,
			Denylist:   denylist,
			Requesters: repos.Requesters,
			Threads:    repos.Threads,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting support API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
