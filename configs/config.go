package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	AppEnv               string
	APIBaseURL           string
	APITimeout           time.Duration
	JWTSecret            string
	Location             *time.Location
	CORSOrigins          string
	AutoCompleteSchedule string
	SessionSweepSchedule string
	ReminderSchedule     string
	ReminderLead         time.Duration
	SessionIdleTimeout   time.Duration
	PaymentPollInterval  time.Duration
	PaymentPollTimeout   time.Duration
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	CatalogCacheTTL      time.Duration
}

// LoadConfig reads .env when present, then the process environment.
// The returned bool is false when no .env file was found.
func LoadConfig() (*Config, bool, error) {
	found := godotenv.Load() == nil

	apiBase := strings.TrimRight(getEnv("API_BASE_URL", ""), "/")
	if apiBase == "" {
		return nil, found, fmt.Errorf("API_BASE_URL is required")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, found, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return &Config{
		Port:                 getEnv("PORT", "3000"),
		AppEnv:               normalizeEnv(getEnv("APP_ENV", "production")),
		APIBaseURL:           apiBase,
		APITimeout:           getEnvDuration("API_TIMEOUT", 15*time.Second),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		Location:             loc,
		CORSOrigins:          getEnv("CORS_ORIGINS", "*"),
		AutoCompleteSchedule: getEnv("AUTO_COMPLETE_SCHEDULE", ""),
		SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "*/10 * * * *"),
		ReminderSchedule:     getEnv("REMINDER_SCHEDULE", "*/5 * * * *"),
		ReminderLead:         getEnvDuration("REMINDER_LEAD", time.Hour),
		SessionIdleTimeout:   getEnvDuration("SESSION_IDLE_TIMEOUT", 24*time.Hour),
		PaymentPollInterval:  getEnvDuration("PAYMENT_POLL_INTERVAL", 5*time.Second),
		PaymentPollTimeout:   getEnvDuration("PAYMENT_POLL_TIMEOUT", 10*time.Minute),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		CatalogCacheTTL:      getEnvDuration("CATALOG_CACHE_TTL", 60*time.Second),
	}, found, nil
}

func (c *Config) Development() bool {
	return c != nil && c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
