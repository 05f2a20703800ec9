package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort         string
	DBDriver           string
	DatabaseDSN        string
	DBLogLevel         string
	RedisAddr          string
	RedisDB            int
	RedisPass          string
	JWTSecret          string
	SwaggerHost        string
	StatusSyncInterval time.Duration
	ResetDB            bool
}

const defaultMySQLDSN = "user:password@tcp(localhost:3306)/ballotbox?charset=utf8mb4&parseTime=True&loc=UTC"

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN:        getEnv("DATABASE_DSN", getEnv("MYSQL_DSN", defaultMySQLDSN)),
		DBLogLevel:         getEnv("DB_LOG_LEVEL", "warn"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		JWTSecret:          getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:        os.Getenv("SWAGGER_HOST"),
		StatusSyncInterval: getEnvDuration("STATUS_SYNC_INTERVAL", 30*time.Second),
		ResetDB:            getEnvBool("RESET_DB", false),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
