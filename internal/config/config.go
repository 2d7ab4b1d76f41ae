package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all server configuration, loaded from the environment with
// development defaults.
type Config struct {
	Port          string
	BackendAPIURL string
	RedisAddr     string
	JWTSecret     string

	AutosaveInterval time.Duration

	// Rate limit for respondent-facing endpoints, requests per second per
	// client IP with a burst allowance.
	RespondentRPS   float64
	RespondentBurst int
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		BackendAPIURL:    getEnvOrDefault("BACKEND_API_URL", "http://localhost:8000"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
		AutosaveInterval: getEnvDuration("AUTOSAVE_INTERVAL", 1500*time.Millisecond),
		RespondentRPS:    getEnvFloat("RESPONDENT_RPS", 5),
		RespondentBurst:  getEnvInt("RESPONDENT_BURST", 10),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
