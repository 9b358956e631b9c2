package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/homeledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.StoreDriver != config.StoreDriverPostgres {
		t.Fatalf("expected default store driver postgres, got %q", cfg.StoreDriver)
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis to be disabled by default, got %q", cfg.RedisURL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.BalanceWindow != 100 {
		t.Fatalf("expected default balance window 100, got %d", cfg.BalanceWindow)
	}

	if cfg.KafkaEnabled() {
		t.Fatalf("expected kafka to be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("BALANCE_WINDOW", "250")
	t.Setenv("DISPLAY_CURRENCY", "eur")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StoreDriver != config.StoreDriverMemory {
		t.Fatalf("expected memory store driver, got %q", cfg.StoreDriver)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.BalanceWindow != 250 {
		t.Fatalf("expected balance window override, got %d", cfg.BalanceWindow)
	}

	if cfg.DisplayCurrency != "EUR" {
		t.Fatalf("expected normalized currency EUR, got %s", cfg.DisplayCurrency)
	}

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("expected two kafka brokers, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("HOMELEDGER_TEST_ONLY=1\nHTTP_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	// godotenv never overrides variables that are already set.
	t.Setenv("HTTP_PORT", "")
	os.Unsetenv("HTTP_PORT")
	t.Cleanup(func() { os.Unsetenv("HOMELEDGER_TEST_ONLY") })

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.HTTPPort != "7070" {
		t.Fatalf("expected HTTP port from env file, got %s", cfg.HTTPPort)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			StoreDriver:     config.StoreDriverPostgres,
			BalanceWindow:   100,
			DisplayCurrency: "USD",
			OutboxBatchSize: 10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "unknown driver", mutate: func(c *config.Config) { c.StoreDriver = "sqlite" }, wantErr: true},
		{name: "zero window", mutate: func(c *config.Config) { c.BalanceWindow = 0 }, wantErr: true},
		{name: "window above max", mutate: func(c *config.Config) { c.BalanceWindow = 100000 }, wantErr: true},
		{name: "unknown currency", mutate: func(c *config.Config) { c.DisplayCurrency = "XXXX" }, wantErr: true},
		{name: "zero outbox batch", mutate: func(c *config.Config) { c.OutboxBatchSize = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
