package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Addr:               ":8080",
		DatabaseURL:        "postgres://localhost/pto",
		SessionTTL:         2 * time.Hour,
		OTPTTL:             5 * time.Minute,
		Environment:        "development",
		EmailMode:          EmailModeNone,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 60,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing database url", func(c *Config) { c.DatabaseURL = " " }, true},
		{"production without secret", func(c *Config) { c.Environment = "production" }, true},
		{"production with secret", func(c *Config) {
			c.Environment = "production"
			c.SessionSecret = "s3cret"
		}, false},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, true},
		{"zero otp ttl", func(c *Config) { c.OTPTTL = 0 }, true},
		{"tiny body limit", func(c *Config) { c.MaxBodyBytes = 100 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, true},
		{"smtp without host", func(c *Config) { c.EmailMode = EmailModeSMTP }, true},
		{"smtp with host", func(c *Config) {
			c.EmailMode = EmailModeSMTP
			c.SMTPHost = "mail.example.com"
		}, false},
		{"api without url", func(c *Config) { c.EmailMode = EmailModeAPI }, true},
		{"unknown email mode", func(c *Config) { c.EmailMode = "carrier-pigeon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected default session ttl 2h, got %s", cfg.SessionTTL)
	}
	if cfg.OTPTTL != 5*time.Minute {
		t.Fatalf("expected default otp ttl 5m, got %s", cfg.OTPTTL)
	}
	if cfg.MigrationsDir != "migrations" {
		t.Fatalf("expected default migrations dir, got %q", cfg.MigrationsDir)
	}
}
