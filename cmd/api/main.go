package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/cache"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/config"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/database"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/handlers"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/jobs"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/log"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/repository"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/server"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	if err := database.RunMigrations(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	sessions, redisClient, err := newSessionManager(ctx, cfg, dbPool)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init session backend")
	}
	logger.Info().Str("backend", cfg.Session.Backend).Msg("session backend ready")

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, sessions, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(sessions, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

// newSessionManager picks the token table backing per config. The memory
// backend keeps logins per-process; postgres and redis share them across
// every server instance pointed at the same store.
func newSessionManager(ctx context.Context, cfg *config.AppConfig, pool *pgxpool.Pool) (session.Manager, *redis.Client, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisManager(client, cfg.Session.TTL), client, nil
	case config.SessionBackendMemory:
		return session.NewMemoryManager(cfg.Session.TTL), nil, nil
	default:
		return session.NewPostgresManager(repository.NewSessionRepository(pool), cfg.Session.TTL), nil, nil
	}
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	cronCtx, cronCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cronCancel()
	if err := scheduler.Stop(cronCtx); err != nil {
		logger.Warn().Err(err).Msg("scheduler did not drain in time")
	}

	db.Close()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
