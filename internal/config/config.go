package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	// RedisURL enables the Redis-backed terminal result cache when set.
	// Empty means the in-process cache is used.
	RedisURL string
	// CounselorAPIURL is the base URL of the external analysis job service.
	// Empty means every result session resolves with the bundled fallback.
	CounselorAPIURL   string
	CounselorVertical string
	PollInterval      time.Duration
	// AssessmentSeconds is the countdown budget for one full aptitude test.
	AssessmentSeconds int
	MaxUploadBytes    int64
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error; .env is optional

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "pretty"),
		RedisURL:          getEnv("REDIS_URL", ""),
		CounselorAPIURL:   getEnv("COUNSELOR_API_URL", ""),
		CounselorVertical: getEnv("COUNSELOR_VERTICAL", "college"),
		PollInterval:      time.Duration(getEnvInt("POLL_INTERVAL_MS", 2000)) * time.Millisecond,
		AssessmentSeconds: getEnvInt("ASSESSMENT_SECONDS", 2700),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 5)) * 1024 * 1024,
		AllowedOrigins:    parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
