package main

import (
	"context"
	"log"
	"time"

	"chat-threads/config"
	"chat-threads/internal/handler"
	"chat-threads/internal/redis"
	"chat-threads/internal/repository"
	"chat-threads/internal/server"
	"chat-threads/internal/services"
	"chat-threads/pkg/database"
	"chat-threads/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	logMode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		logMode = logger.ProductionMode
	}
	appLogger := logger.New(logMode)
	logger.SetGlobalLogger(appLogger)
	defer appLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.Connect(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)

	var cache services.ThreadCache
	var limiter *redis.RateLimiter
	if cfg.RedisEnabled {
		redis.Initialize(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		client := redis.GetClient()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redis.Ping(pingCtx, client)
		pingCancel()
		if err != nil {
			appLogger.Warnf("Redis unavailable, continuing without cache and rate limits: %v", err)
		} else {
			cache = redis.NewCacheStore(client, redis.CacheConfig{
				ThreadListTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
			})
			limiter = redis.NewRateLimiter(client, redis.RateLimitConfig{
				ThreadLimit:  cfg.RateLimitPerMinute,
				ThreadWindow: time.Minute,
			})
		}
	}

	authService := services.NewAuthService(cfg)
	threadService := services.NewThreadService(store, cache, appLogger)

	srv := server.New(cfg, appLogger)
	srv.SetupRoutes(&server.Handlers{
		Thread: handler.NewThreadHandler(threadService),
	}, authService, limiter, database.HealthCheck)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
}
