package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EmailModeNone = "none"
	EmailModeSMTP = "smtp"
	EmailModeAPI  = "api"
)

type Config struct {
	Addr                 string
	DatabaseURL          string
	SessionSecret        string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	OTPTTL               time.Duration
	FrontendDir          string
	Environment          string
	EmailMode            string
	EmailFrom            string
	SMTPHost             string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	SMTPUseTLS           bool
	EmailAPIURL          string
	EmailAPIServiceID    string
	EmailAPITemplateID   string
	EmailAPIPublicKey    string
	MigrationsDir        string
	RunMigrations        bool
	RunSeed              bool
	SeedAdminID          string
	SeedAdminEmail       string
	MaxBodyBytes         int64
	RateLimitPerMinute   int
	MetricsEnabled       bool
}

func Load() Config {
	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		SessionTTL:           getEnvDuration("SESSION_TTL", 2*time.Hour),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		OTPTTL:               getEnvDuration("OTP_TTL", 5*time.Minute),
		FrontendDir:          getEnv("FRONTEND_DIR", "frontend/dist"),
		Environment:          getEnv("APP_ENV", "development"),
		EmailMode:            getEnv("EMAIL_MODE", EmailModeNone),
		EmailFrom:            getEnv("EMAIL_FROM", "no-reply@example.com"),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:           getEnvBool("SMTP_USE_TLS", true),
		EmailAPIURL:          getEnv("EMAIL_API_URL", ""),
		EmailAPIServiceID:    getEnv("EMAIL_API_SERVICE_ID", ""),
		EmailAPITemplateID:   getEnv("EMAIL_API_TEMPLATE_ID", ""),
		EmailAPIPublicKey:    getEnv("EMAIL_API_PUBLIC_KEY", ""),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", "migrations"),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:              getEnvBool("RUN_SEED", true),
		SeedAdminID:          getEnv("SEED_ADMIN_ID", "E001"),
		SeedAdminEmail:       getEnv("SEED_ADMIN_EMAIL", ""),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("SESSION_SECRET must be set to a strong value in production")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	switch c.EmailMode {
	case EmailModeNone:
	case EmailModeSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST must be set when EMAIL_MODE is smtp")
		}
	case EmailModeAPI:
		if c.EmailAPIURL == "" || c.EmailAPIServiceID == "" || c.EmailAPITemplateID == "" {
			return fmt.Errorf("EMAIL_API_URL, EMAIL_API_SERVICE_ID and EMAIL_API_TEMPLATE_ID must be set when EMAIL_MODE is api")
		}
	default:
		return fmt.Errorf("EMAIL_MODE must be one of none, smtp, api")
	}
	return nil
}
