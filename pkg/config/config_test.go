package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":3000" {
		t.Errorf("expected :3000, got %q", cfg.HTTP.Addr)
	}
	if cfg.Store.Driver != DriverMongo || cfg.Mongo.Database != "cst3144" {
		t.Errorf("unexpected store defaults: %+v %+v", cfg.Store, cfg.Mongo)
	}
	if cfg.Idempotency.TTL != 24*time.Hour {
		t.Errorf("unexpected ttl: %v", cfg.Idempotency.TTL)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "http:\n  addr: \":8080\"\nstore:\n  driver: memory\nlog:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("expected env override, got %q", cfg.HTTP.Addr)
	}
	if cfg.Store.Driver != DriverMemory || cfg.Log.Level != "debug" {
		t.Errorf("expected file values, got driver=%q level=%q", cfg.Store.Driver, cfg.Log.Level)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("expected redis addr from env, got %q", cfg.Redis.Addr)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.HTTP.Addr = ":3000"
		c.Store.Driver = DriverMemory
		return c
	}
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"ok", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }, "store.driver"},
		{"postgres without url", func(c *Config) { c.Store.Driver = DriverPostgres }, "postgres.url"},
		{"mongo without uri", func(c *Config) { c.Store.Driver = DriverMongo }, "mongo.uri"},
		{"half tls", func(c *Config) { c.TLS.CertFile = "server.crt" }, "tls"},
		{"bad probability", func(c *Config) { c.Otel.Probability = 2 }, "otel.probability"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.modify(&c)
			err := c.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var cerr *Error
			if !errors.As(err, &cerr) || cerr.Field != tt.field {
				t.Fatalf("expected error on %s, got %v", tt.field, err)
			}
		})
	}
}
