package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nordai-studio/studio-cms/internal/api"
	"github.com/nordai-studio/studio-cms/internal/auth"
	"github.com/nordai-studio/studio-cms/internal/cache"
	"github.com/nordai-studio/studio-cms/internal/config"
	"github.com/nordai-studio/studio-cms/internal/logger"
	"github.com/nordai-studio/studio-cms/internal/media"
	"github.com/nordai-studio/studio-cms/internal/middleware"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Msg("starting studio-cms")

	// Listing cache: Redis when configured, in-memory otherwise.
	var listCache cache.ListCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		listCache = redisCache
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-memory listing cache")
		listCache = cache.NewMemoryCache()
	}
	defer func() {
		if err := listCache.Close(); err != nil {
			log.Error().Err(err).Msg("error closing listing cache")
		}
	}()

	// Media uploads are optional; the admin panel degrades to URL input.
	var uploader *media.Uploader
	if cfg.R2Endpoint != "" {
		var err error
		uploader, err = media.NewUploader(context.Background(), media.Config{
			Endpoint:      cfg.R2Endpoint,
			AccessKey:     cfg.R2AccessKey,
			SecretKey:     cfg.R2SecretKey,
			Bucket:        cfg.R2Bucket,
			PublicBaseURL: cfg.MediaBaseURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize media storage")
		}
	} else {
		log.Warn().Msg("R2_ENDPOINT not set, media uploads disabled")
	}

	gate := auth.NewGate(auth.Options{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.OAuthRedirectURL,
		Allowed:      cfg.AllowedLogins,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api.SetupRoutes(app, api.NewHandlers(cfg, gate, listCache, uploader))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
