package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Env             string
	PostgresConnStr string
	MediaRoot       string
	JWTSecret       string
	SessionLifetime time.Duration
	CacheTTL        time.Duration
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		MediaRoot:       getEnv("MEDIA_ROOT", "./media"),
		JWTSecret:       getEnv("JWT_SECRET", "supersecretjwtkey"),
		SessionLifetime: time.Duration(getInt("SESSION_LIFETIME_HOURS", 24)) * time.Hour,
		CacheTTL:        time.Duration(getInt("CACHE_TTL_SECONDS", 20)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
