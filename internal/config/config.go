package config

import (
	"os"
	"time"
)

type Config struct {
	Addr           string
	DBDriver       string
	DBDSN          string
	SessionBackend string // "memory" or "redis"
	RedisAddr      string
	SessionTTL     time.Duration
}

func Load() *Config {
	return &Config{
		Addr:           getEnv("ADDR", ":8080"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:          getEnv("DB_DSN", "chatline.db"),
		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
