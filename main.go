package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DhavalSuthar-24/arena/config"
	_ "github.com/DhavalSuthar-24/arena/docs"
	"github.com/DhavalSuthar-24/arena/internal/auth"
	"github.com/DhavalSuthar-24/arena/internal/database"
	"github.com/DhavalSuthar-24/arena/pkg/lock"
	"github.com/DhavalSuthar-24/arena/pkg/logger"
	"github.com/DhavalSuthar-24/arena/pkg/validator"
	"github.com/DhavalSuthar-24/arena/routes"
	"github.com/gin-gonic/gin"
)

// @title Arena REST API
// @version 1.0
// @description Lobbies, matchmaking, matches, bets and wallet for Free Fire custom rooms.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Setup(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	log := logger.Get()

	if err := config.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	cfg := config.GetConfig()
	logger.Setup(cfg.App.Env, cfg.App.LogLevel)
	log = logger.Get()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Migrate(config.DB); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("migration successful")
	validator.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.URL != "" {
		rdb, err := lock.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb)
		log.Info().Msg("using redis for matchmaking lock")
	}

	svc := routes.NewServices(config.DB, cfg, locker)
	r := routes.SetupRoutes(config.DB, cfg, svc)

	if cfg.Matchmaking.WorkerEnabled {
		go svc.Processor.Run(ctx, time.Duration(cfg.Matchmaking.IntervalSeconds)*time.Second)
	}
	go pruneRefreshTokens(ctx, auth.NewAuthRepository(config.DB))

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func pruneRefreshTokens(ctx context.Context, repo auth.AuthRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpiredRefreshTokens()
			if err != nil {
				logger.Get().Warn().Err(err).Msg("refresh token cleanup failed")
				continue
			}
			if n > 0 {
				logger.Get().Info().Int64("deleted", n).Msg("pruned refresh tokens")
			}
		}
	}
}
