package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings. It is loaded once in main and
// immutable afterwards; components receive the values they need.
type Config struct {
	Addr          string
	DBPath        string
	SessionSecret string
	IdleTimeout   time.Duration
}

// Load reads configuration from the environment, after a best-effort
// .env load. Every setting has a development fallback.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:          safeEnv("ENQUETE_ADDR", ":8080"),
		DBPath:        safeEnv("ENQUETE_DB_PATH", "data/survey.db"),
		SessionSecret: safeEnv("ENQUETE_SESSION_SECRET", "enquete-dev-secret"),
		IdleTimeout:   durationEnv("ENQUETE_IDLE_TIMEOUT", time.Minute),
	}
}

func safeEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
