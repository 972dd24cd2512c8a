package main

import (
	"context"
	"time"

	"github.com/stavnycha/whereami/internal/config"
	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/store"
)

// This tool loads the IP to country dataset from CSV into Redis
// Usage: go run cmd/load-redis/main.go
func main() {
	appConfig := config.Load()

	log := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	}).WithComponent("LoadRedis")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info().Str("addr", appConfig.RedisAddr).Msg("Connecting to Redis")
	redisStore, err := store.NewRedisStore(ctx, appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisStore.Close()

	log.Info().Str("path", appConfig.DatastorePath).Msg("Loading dataset")
	loaded, err := redisStore.LoadFromCSV(ctx, appConfig.DatastorePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load CSV data")
	}

	log.Info().
		Int("records", loaded).
		Msg("Dataset loaded, start the server with GEO_BACKEND=redis")
}
