package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	SonicAPIKey      string
	SonicBaseURL     string
	SongDuration     int
	PollInterval     time.Duration
	PollBudget       time.Duration
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. The generate handler blocks for the whole polling
// run, so the write timeout must stay above the poll budget.
func LoadConfig() (*Config, error) {
	pollBudget := getEnvInt("POLL_BUDGET_SECONDS", 600)
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		SonicAPIKey:      os.Getenv("SONIC_API_KEY"),
		SonicBaseURL:     getEnv("SONIC_BASE_URL", "https://api.trysonic.ai/v1"),
		SongDuration:     getEnvInt("SONG_DURATION_SECONDS", 16),
		PollInterval:     time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 15)),
		PollBudget:       time.Second * time.Duration(pollBudget),
		AllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", pollBudget+30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.SonicAPIKey == "" {
		return nil, fmt.Errorf("SONIC_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
