package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string        // dev, prod
	LogLevel        string        // debug, info, warn, error
	HTTPPort        string        // stub backend listen port
	APIBaseURL      string        // where the gateway client sends create requests
	HTTPTimeout     time.Duration // per-request timeout on the gateway client
	SuccessTTL      time.Duration // how long a success notice stays visible
	ShutdownTimeout time.Duration // graceful shutdown timeout for the stub backend
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HTTPPort:        getEnv("HTTP_PORT", "8000"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8000"),
		HTTPTimeout:     getDuration("HTTP_TIMEOUT", 10*time.Second),
		SuccessTTL:      getDuration("SUCCESS_NOTICE_TTL", 3*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
