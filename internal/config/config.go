package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseType  string // sqlite, postgres or mysql
	DatabasePath  string // sqlite file path
	DatabaseURL   string // postgres/mysql connection string
	FallbackStore string // file or redis
	FallbackPath  string // file store path
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	LogLevel      string
}

// Load reads configuration from environment variables with sensible
// defaults, loading a .env file first when one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseType:  getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:  getEnv("DB_PATH", "./dental_health.db"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		FallbackStore: getEnv("FALLBACK_STORE", "file"),
		FallbackPath:  getEnv("FALLBACK_PATH", "./dental_health_fallback.json"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", "dev-only-secret"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
