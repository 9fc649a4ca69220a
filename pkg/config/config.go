package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// APIConfig holds remote farm API configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig holds local persistence configuration
type StorageConfig struct {
	Path string
}

// SyncConfig holds periodic sync and connectivity probe configuration
type SyncConfig struct {
	TreatmentsInterval time.Duration
	ProductsInterval   time.Duration
	WeatherInterval    time.Duration
	ProbeInterval      time.Duration
	ProbeTimeout       time.Duration
	MaxReplayAttempts  int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	API         APIConfig
	Storage     StorageConfig
	Sync        SyncConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: serviceName,
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "https://api.agrinote.com/v1"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Path: getEnv("STORAGE_PATH", "agrinote.db"),
		},
		Sync: SyncConfig{
			TreatmentsInterval: getEnvAsDuration("SYNC_TREATMENTS_INTERVAL", 5*time.Minute),
			ProductsInterval:   getEnvAsDuration("SYNC_PRODUCTS_INTERVAL", 10*time.Minute),
			WeatherInterval:    getEnvAsDuration("SYNC_WEATHER_INTERVAL", 30*time.Minute),
			ProbeInterval:      getEnvAsDuration("NET_PROBE_INTERVAL", 15*time.Second),
			ProbeTimeout:       getEnvAsDuration("NET_PROBE_TIMEOUT", 3*time.Second),
			MaxReplayAttempts:  getEnvAsInt("SYNC_MAX_REPLAY_ATTEMPTS", 5),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "defaultsecretkey"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", serviceName),
		},
	}

	return config, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("api_base_url", c.API.BaseURL),
		zap.String("storage_path", c.Storage.Path),
		zap.String("server_port", c.Server.Port),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
