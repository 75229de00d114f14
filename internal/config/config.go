package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Google   GoogleConfig
	SMTP     SMTPConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	Environment    string
	FrontendURL    string
	AllowedOrigins []string
}

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  string
	RefreshTTL string
	ResetTTL   string
	VerifyTTL  string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	FromName string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Host:           getenv("HOST", "0.0.0.0"),
			Port:           getenv("PORT", "8000"),
			Environment:    getenv("ENVIRONMENT", "development"),
			FrontendURL:    getenv("FRONTEND_URL", "http://localhost:3000"),
			AllowedOrigins: splitOrigins(getenv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8000")),
		},
		Auth: AuthConfig{
			JWTSecret:  os.Getenv("JWT_SECRET_KEY"),
			AccessTTL:  getenv("ACCESS_TOKEN_TTL", "30m"),
			RefreshTTL: getenv("REFRESH_TOKEN_TTL", "168h"),
			ResetTTL:   getenv("RESET_TOKEN_TTL", "1h"),
			VerifyTTL:  getenv("VERIFY_TOKEN_TTL", "24h"),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  getenv("GOOGLE_REDIRECT_URI", "http://localhost:8000/api/auth/google/callback"),
		},
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getenv("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("EMAIL_FROM", "noreply@sehatguru.com"),
			FromName: getenv("EMAIL_FROM_NAME", "SehatGuru"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

// IsProduction reports whether dev-only routes must stay unregistered.
func (c ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c AuthConfig) AccessDuration() time.Duration  { return parseTTL(c.AccessTTL, 30*time.Minute) }
func (c AuthConfig) RefreshDuration() time.Duration { return parseTTL(c.RefreshTTL, 168*time.Hour) }
func (c AuthConfig) ResetDuration() time.Duration   { return parseTTL(c.ResetTTL, time.Hour) }
func (c AuthConfig) VerifyDuration() time.Duration  { return parseTTL(c.VerifyTTL, 24*time.Hour) }

func parseTTL(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitOrigins(value string) []string {
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
