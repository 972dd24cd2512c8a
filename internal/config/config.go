package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Geolocation backends
const (
	GeoBackendHTTP  = "http"  // external provider reached over HTTP (default)
	GeoBackendCSV   = "csv"   // local CSV dataset loaded into memory
	GeoBackendMySQL = "mysql" // MySQL table through GORM
	GeoBackendRedis = "redis" // Redis keys loaded by cmd/load-redis
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port            string        `validate:"required,numeric"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	// Logging
	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogPretty bool
	LogFile   string // optional file that receives a copy of the log

	// Geolocation
	GeoBackend       string        `validate:"oneof=http csv mysql redis"`
	GeoProviderURL   string        `validate:"required_if=GeoBackend http,omitempty,url"`
	GeoProviderToken string        // optional bearer token for the provider
	GeoTimeout       time.Duration `validate:"gt=0"`

	// Datastore configuration (local geolocation backends)
	DatastorePath string `validate:"required_if=GeoBackend csv"` // path to CSV file

	// MySQL configuration
	MySQLDSN             string        `validate:"required_if=GeoBackend mysql"` // Data Source Name
	MySQLMaxOpenConns    int           `validate:"min=1"`
	MySQLMaxIdleConns    int           `validate:"min=0,ltefield=MySQLMaxOpenConns"`
	MySQLConnMaxLifetime time.Duration `validate:"gt=0"`

	// Redis configuration
	RedisAddr     string `validate:"required_if=GeoBackend redis"`
	RedisPassword string
	RedisDB       int `validate:"min=0"`
}

// Load reads configuration from environment variables
// with sensible defaults
func Load() *Config {
	// Load .env file if it exists (for local development)
	// In production/Docker, environment variables are set directly
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:            getEnv("PORT", "3000"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
		LogFile:   getEnv("LOG_FILE", ""),

		// Geolocation config (default: ipinfo.io over plain HTTP, 5 second budget)
		GeoBackend:       getEnv("GEO_BACKEND", GeoBackendHTTP),
		GeoProviderURL:   getEnv("GEO_PROVIDER_URL", "http://ipinfo.io"),
		GeoProviderToken: getEnv("GEO_PROVIDER_TOKEN", ""),
		GeoTimeout:       getEnvAsDuration("GEO_TIMEOUT", 5*time.Second),

		// Datastore config
		DatastorePath: getEnv("DATASTORE_PATH", "./data/ip2country.csv"),

		// MySQL config
		MySQLDSN:             getEnv("MYSQL_DSN", ""),
		MySQLMaxOpenConns:    getEnvAsInt("MYSQL_MAX_OPEN_CONNS", 25),
		MySQLMaxIdleConns:    getEnvAsInt("MYSQL_MAX_IDLE_CONNS", 5),
		MySQLConnMaxLifetime: getEnvAsDuration("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute),

		// Redis config
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool reads an environment variable as a boolean
// Accepts anything strconv.ParseBool does (1, t, true, 0, f, false...)
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsDuration reads an environment variable as a time.Duration
// Values use Go duration syntax, e.g. "500ms" or "5s"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
