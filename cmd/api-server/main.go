package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"animedrop/database"
	"animedrop/internal/config"
	"animedrop/internal/logging"
	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/middleware"
	"animedrop/internal/microservices/http-api/repository"
	"animedrop/internal/microservices/http-api/router"
	"animedrop/internal/microservices/http-api/service"
	"animedrop/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		// the cache is optional, serve straight from Postgres
		logging.Warn().Err(err).Msg("redis unavailable, discovery cache disabled")
		rdb = nil
	}

	var cache repository.DiscoveryCache
	if rdb != nil {
		cache = repository.NewRedisDiscoveryCache(rdb, cfg.CacheDuration())
	}

	dto.RegisterValidators()

	userRepo := repository.NewUserRepository(db)
	animeRepo := repository.NewAnimeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := websocket.NewHub()
	notifications := service.NewNotificationService(notificationRepo, hub)

	limiter := middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	stopCleanup := make(chan struct{})
	go limiter.RunCleanup(time.Minute, stopCleanup)

	engine := router.New(router.Dependencies{
		Auth:           service.NewAuthService(userRepo, cfg),
		Anime:          service.NewAnimeService(animeRepo, userRepo, cache, notifications),
		Users:          service.NewUserService(userRepo, animeRepo, notifications),
		Notifications:  notifications,
		Hub:            hub,
		Limiter:        limiter,
		AllowedOrigins: cfg.CORSOrigins,
		EnableMetrics:  cfg.PrometheusEnabled,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router.WithCORS(engine, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("env", cfg.GoEnv).Msg("api server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("shutting down api server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// hijacked websocket connections are not tracked by Shutdown
	hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
	close(stopCleanup)

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close redis")
		}
	}
	if err := database.Close(db); err != nil {
		logging.Warn().Err(err).Msg("failed to close database")
	}
	logging.Info().Msg("api server stopped")
}
