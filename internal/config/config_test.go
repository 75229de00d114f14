package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Shield the test from whatever the host environment carries.
	for _, key := range []string{"PORT", "ENVIRONMENT", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Server.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Server.Environment)
	}
	if cfg.Server.IsProduction() {
		t.Error("IsProduction() must be false by default")
	}
	if got := len(cfg.Server.AllowedOrigins); got != 2 {
		t.Errorf("AllowedOrigins has %d entries, want 2", got)
	}
	if cfg.Auth.AccessDuration() != 30*time.Minute {
		t.Errorf("AccessDuration = %v, want 30m", cfg.Auth.AccessDuration())
	}
	if cfg.Auth.RefreshDuration() != 168*time.Hour {
		t.Errorf("RefreshDuration = %v, want 168h", cfg.Auth.RefreshDuration())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("JWT_SECRET_KEY", "from-env")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("ALLOWED_ORIGINS", "https://app.sehatguru.com, https://staging.sehatguru.com ,")

	cfg := Load()

	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Server.Port)
	}
	if !cfg.Server.IsProduction() {
		t.Error("IsProduction() must match ENVIRONMENT case-insensitively")
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.AccessDuration() != 15*time.Minute {
		t.Errorf("AccessDuration = %v, want 15m", cfg.Auth.AccessDuration())
	}

	want := []string{"https://app.sehatguru.com", "https://staging.sehatguru.com"}
	if len(cfg.Server.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.Server.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.Server.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.Server.AllowedOrigins[i], want[i])
		}
	}
}

func TestParseTTLFallback(t *testing.T) {
	tests := []struct {
		value    string
		fallback time.Duration
		want     time.Duration
	}{
		{"45m", time.Hour, 45 * time.Minute},
		{"garbage", time.Hour, time.Hour},
		{"", time.Hour, time.Hour},
		{"-5m", time.Hour, time.Hour},
		{"0s", time.Hour, time.Hour},
	}
	for _, tt := range tests {
		if got := parseTTL(tt.value, tt.fallback); got != tt.want {
			t.Errorf("parseTTL(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
