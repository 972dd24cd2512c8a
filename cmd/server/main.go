package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stavnycha/whereami/internal/config"
	"github.com/stavnycha/whereami/internal/geo"
	"github.com/stavnycha/whereami/internal/handler"
	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/metrics"
	"github.com/stavnycha/whereami/internal/router"
	"github.com/stavnycha/whereami/internal/service"
	"github.com/stavnycha/whereami/internal/store"
)

// @title           WhereAmI API
// @version         1.0
// @description     Tells callers their address, country and preferred language as seen by the server.

// @host      localhost:3000
// @BasePath  /
func main() {
	appConfig := config.Load()
	appLogger := setupLogger(appConfig)

	if err := appConfig.Validate(); err != nil {
		appLogger.Fatal().Err(err).Msg("Invalid configuration")
	}

	metricsCollector := setupMetrics(appLogger)

	locator, closeLocator := setupLocator(appConfig, metricsCollector, appLogger)
	defer closeLocator()

	// Build application layers
	whereAmIService := service.NewWhereAmIService(locator, metricsCollector, appLogger)
	whereAmIHandler := handler.NewWhereAmIHandler(whereAmIService, appLogger)
	appRouter := router.SetupRouter(whereAmIHandler, metricsCollector, prometheus.DefaultGatherer, appLogger)

	if err := startServer(appConfig, appRouter, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("Server failed")
		closeLocator()
		os.Exit(1)
	}
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:      appConfig.LogLevel,
		Pretty:     appConfig.LogPretty,
		OutputFile: appConfig.LogFile,
	})

	appLogger.Info().Msg("Starting WhereAmI Server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("geo_backend", appConfig.GeoBackend).
		Str("geo_provider_url", appConfig.GeoProviderURL).
		Dur("geo_timeout", appConfig.GeoTimeout).
		Str("datastore_path", appConfig.DatastorePath).
		Msg("Configuration loaded")

	return appLogger
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New(prometheus.DefaultRegisterer)
	log.Info().Msg("Metrics initialized")
	return metricsCollector
}

// setupLocator builds the geolocation backend selected by GEO_BACKEND
// The returned func releases whatever the backend holds open
func setupLocator(appConfig *config.Config, m *metrics.Metrics, log *logger.Logger) (geo.Locator, func()) {
	if appConfig.GeoBackend == config.GeoBackendHTTP {
		client := geo.NewHTTPClient(geo.HTTPClientConfig{
			BaseURL: appConfig.GeoProviderURL,
			Token:   appConfig.GeoProviderToken,
			Timeout: appConfig.GeoTimeout,
			Metrics: m,
			Logger:  log,
		})
		log.Info().Str("provider", appConfig.GeoProviderURL).Msg("HTTP geolocation client initialized")
		return client, func() {}
	}

	dataStore := setupDataStore(appConfig, log)
	locator := geo.NewStoreLocator(dataStore, appConfig.GeoBackend, m, log)

	return locator, func() {
		if err := locator.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close datastore")
		}
	}
}

// setupDataStore initializes a local dataset for the csv, mysql and redis backends
func setupDataStore(appConfig *config.Config, log *logger.Logger) store.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch appConfig.GeoBackend {
	case config.GeoBackendCSV:
		csvStore, err := store.NewCSVStore(appConfig.DatastorePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize CSV store")
		}
		log.Info().Int("records", len(csvStore.Records())).Msg("CSV store initialized")
		return csvStore

	case config.GeoBackendMySQL:
		mysqlStore, err := store.NewMySQLStore(ctx, store.MySQLConfig{
			DSN:             appConfig.MySQLDSN,
			MaxOpenConns:    appConfig.MySQLMaxOpenConns,
			MaxIdleConns:    appConfig.MySQLMaxIdleConns,
			ConnMaxLifetime: appConfig.MySQLConnMaxLifetime,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize MySQL store")
		}

		rows, err := mysqlStore.Count(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to count dataset rows")
		}
		log.Info().Int64("records", rows).Msg("MySQL store initialized")
		return mysqlStore

	case config.GeoBackendRedis:
		redisStore, err := store.NewRedisStore(ctx, appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis store")
		}
		log.Info().Str("addr", appConfig.RedisAddr).Msg("Redis store initialized")

		// Auto-load data if Redis is empty
		loadRedisDataIfEmpty(ctx, redisStore, appConfig.DatastorePath, log)
		return redisStore
	}

	log.Fatal().Str("backend", appConfig.GeoBackend).Msg("Unknown geolocation backend")
	return nil
}

// loadRedisDataIfEmpty seeds an empty Redis from the CSV dataset
func loadRedisDataIfEmpty(ctx context.Context, redisStore *store.RedisStore, csvPath string, log *logger.Logger) {
	isEmpty, err := redisStore.IsEmpty(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to check if Redis is empty")
		return
	}
	if !isEmpty {
		return
	}

	log.Info().Str("path", csvPath).Msg("Redis is empty, loading dataset from CSV")
	loaded, err := redisStore.LoadFromCSV(ctx, csvPath)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load dataset")
		return
	}
	log.Info().Int("records", loaded).Msg("Dataset loaded into Redis")
}

// startServer runs the HTTP server until SIGINT/SIGTERM, then drains
// in-flight requests for at most ShutdownTimeout
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) error {
	server := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           appRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", appConfig.Port).
			Str("api_endpoint", "http://localhost:"+appConfig.Port+"/whereami").
			Str("health_check", "http://localhost:"+appConfig.Port+"/health").
			Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
			Str("swagger", "http://localhost:"+appConfig.Port+"/swagger/index.html").
			Msg("Server is running")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("Server stopped")
	return nil
}
