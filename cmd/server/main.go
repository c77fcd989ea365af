package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/competa-arena/contest-service/internal/client"
	"github.com/competa-arena/contest-service/internal/config"
	"github.com/competa-arena/contest-service/internal/database"
	"github.com/competa-arena/contest-service/internal/handler"
	"github.com/competa-arena/contest-service/internal/logger"
	"github.com/competa-arena/contest-service/internal/repository"
	"github.com/competa-arena/contest-service/internal/router"
	"github.com/competa-arena/contest-service/internal/service"
	"github.com/competa-arena/contest-service/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("user_service", cfg.UserServiceURL).
		Msg("Starting Contest Service")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Outbound Clients ──────────────────────────────────────────────
	identityClient := client.NewIdentityClient(cfg, log)
	tokenValidator := client.NewCachedTokenValidator(identityClient, rdb, cfg.TokenCacheTTL, log)
	blobClient := client.NewBlobClient(cfg, log)

	// ─── Repositories and Services ─────────────────────────────────────
	contestRepo := repository.NewContestRepository(pool)
	contestService := service.NewContestService(contestRepo, blobClient, log)

	// ─── Handlers and Router ───────────────────────────────────────────
	handlers := &router.Handlers{
		Contest: handler.NewContestHandler(contestService),
	}

	r := router.SetupRouter(tokenValidator, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
