package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arroyo_seco_api/internal/api"
	"arroyo_seco_api/internal/api/middleware"
	"arroyo_seco_api/internal/app/service"
	"arroyo_seco_api/internal/app/worker"
	"arroyo_seco_api/internal/common/security"
	"arroyo_seco_api/internal/domain/repository"
	"arroyo_seco_api/internal/platform/cache"
	"arroyo_seco_api/internal/platform/config"
	"arroyo_seco_api/internal/platform/database"

	"github.com/rs/zerolog"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("env", cfg.Env).
		Logger()

	// 2. Connect Postgres
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	logger.Info().Msg("database connected")

	// 3. Connect Redis
	rdb, err := cache.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()
	logger.Info().Msg("redis connected")

	// 4. Repositories
	userRepo := repository.NewPgUserRepository(db)
	sessionRepo := repository.NewPgSessionRepository(db)
	placeRepo := repository.NewPgPlaceRepository(db)

	// 5. Token issuer and principal resolution strategy. The store-backed
	// resolver is the default; claims-only mode trades revocation for one
	// less database round-trip per request.
	issuer := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenValidity)

	var resolver middleware.PrincipalResolver
	if cfg.AuthStoreLookup {
		resolver = middleware.StoreResolver{
			Users:    userRepo,
			Sessions: sessionRepo,
			Timeout:  cfg.AuthLookupTimeout,
		}
	} else {
		resolver = middleware.ClaimsResolver{}
		logger.Warn().Msg("store lookup disabled, trusting token claims for role and status")
	}
	auth := middleware.NewAuthenticator(issuer, resolver)

	// 6. Services
	authService := service.NewAuthService(userRepo, sessionRepo, issuer)
	placeService := service.NewPlaceService(placeRepo)

	// 7. Rate limit counter store
	var counters middleware.CounterStore
	if cfg.RateLimitStore == "redis" {
		counters = middleware.NewRedisCounterStore(rdb)
	} else {
		counters = middleware.NewMemoryCounterStore()
	}

	// 8. Session expiry sweeper (as a goroutine)
	sweeper := worker.NewSessionSweeper(rdb, sessionRepo, cfg.SweepInterval, cfg.SweepLockKey, cfg.SweepLockTTL, logger)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go sweeper.Start(workerCtx)

	// 9. Router & HTTP server
	router := api.NewRouter(cfg, logger, auth, counters, authService, placeService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", cfg.APIPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stop

	logger.Info().Msg("shutting down")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}

	logger.Info().Msg("server and sweeper stopped")
}
