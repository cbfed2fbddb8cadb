package config

import (
	"testing"
	"time"
)

func TestLoad_UsesDefaults(t *testing.T) {
	t.Setenv("STRIPE_ENABLED", "false")
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Worker.ReconcileSchedule != "@every 15m" {
		t.Errorf("Worker.ReconcileSchedule = %q", cfg.Worker.ReconcileSchedule)
	}
	if cfg.Notify.Enabled() {
		t.Error("notifications should be off without webhook URLs")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STRIPE_ENABLED", "false")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("STRIPE_TIMEOUT", "3s")
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.example.com/ops")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "/tmp/x.db" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Stripe.Timeout != 3*time.Second {
		t.Errorf("Stripe.Timeout = %v, want 3s", cfg.Stripe.Timeout)
	}
	if !cfg.Notify.Enabled() {
		t.Error("notifications should be on when a webhook URL is set")
	}
}

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 5000, Environment: "development"},
		Database: DatabaseConfig{Driver: "memory"},
		Auth:     AuthConfig{JWTSecret: "supersecretkey"},
		Stripe:   StripeConfig{Timeout: time.Second},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"default secret in production", func(c *Config) { c.Server.Environment = "production" }, true},
		{"custom secret in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Auth.JWTSecret = "a-real-secret"
		}, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"stripe without key", func(c *Config) { c.Stripe.Enabled = true }, true},
		{"stripe with key", func(c *Config) {
			c.Stripe.Enabled = true
			c.Stripe.SecretKey = "sk_test_123"
		}, false},
		{"zero stripe timeout", func(c *Config) { c.Stripe.Timeout = 0 }, true},
		{"negative notify retries", func(c *Config) { c.Notify.MaxRetries = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
