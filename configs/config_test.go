package config

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresAPIBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	if _, _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error without API_BASE_URL")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend.local/api/")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("PAYMENT_POLL_INTERVAL", "not-a-duration")
	t.Setenv("REDIS_DB", "2")

	cfg, _, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIBaseURL != "http://backend.local/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if !cfg.Development() {
		t.Fatalf("expected development env, got %q", cfg.AppEnv)
	}
	if cfg.PaymentPollInterval != 5*time.Second {
		t.Fatalf("expected fallback poll interval, got %v", cfg.PaymentPollInterval)
	}
	if cfg.RedisDB != 2 {
		t.Fatalf("expected redis db 2, got %d", cfg.RedisDB)
	}
	if cfg.ReminderLead != time.Hour || cfg.ReminderSchedule == "" {
		t.Fatalf("expected reminder defaults, got %v %q", cfg.ReminderLead, cfg.ReminderSchedule)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("expected UTC location, got %v", cfg.Location)
	}
}

func TestLoadConfigRejectsBadTimezone(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend.local/api")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	if _, _, err := LoadConfig(); err == nil {
		t.Fatal("expected timezone error")
	}
}
