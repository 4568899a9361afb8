package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != defaultPort || cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Learning.Interval != time.Hour || cfg.Learning.InitialDelay != 30*time.Second {
		t.Errorf("learning timing = %s / %s", cfg.Learning.Interval, cfg.Learning.InitialDelay)
	}
	if cfg.Batch.Delay != 2*time.Second || cfg.Batch.MaxURLs != 20 {
		t.Errorf("batch = %+v", cfg.Batch)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := `
env: production
server:
  port: 9000
database:
  driver: postgres
  dsn: postgres://u:p@localhost/db
learning:
  interval: 10m
  lookback: 30
  min_documents: 10
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Database.Driver != "postgres" || !cfg.IsProduction() {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Learning.Interval != 10*time.Minute || cfg.Learning.Lookback != 30 {
		t.Errorf("learning = %+v", cfg.Learning)
	}
	// untouched sections keep defaults
	if cfg.Fetch.Timeout != defaultFetchTimeout {
		t.Errorf("fetch timeout = %s", cfg.Fetch.Timeout)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("servr:\n  port: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SUMMARIZER_PORT", "7070")
	t.Setenv("SUMMARIZER_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("OTEL_ENABLED", "true")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 || cfg.Redis.URL != "redis://localhost:6379/1" || !cfg.Tracing.Enabled {
		t.Fatalf("cfg = %+v", cfg)
	}

	t.Setenv("SUMMARIZER_PORT", "not-a-port")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected port parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"window", func(c *Config) { c.Learning.Lookback = 2 }},
		{"batch", func(c *Config) { c.Batch.MaxURLs = 0 }},
		{"sample", func(c *Config) { c.Tracing.SampleRatio = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
