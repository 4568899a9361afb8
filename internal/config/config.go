package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort           = 8080
	defaultEnv            = "development"
	defaultDBDriver       = "sqlite"
	defaultSQLiteDSN      = "file:summarizer.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	defaultMaxUploadBytes = 32 << 20
	defaultFetchTimeout   = 30 * time.Second
	defaultFetchMaxBytes  = 50 << 20
	defaultUserAgent      = "adaptive-summarizer/1.0"
	defaultCacheTTL       = 24 * time.Hour
	defaultTokenTTL       = 12 * time.Hour
	defaultBatchDelay     = 2 * time.Second
	defaultBatchMaxURLs   = 20
	defaultServiceName    = "adaptive-summarizer"
)

// Config is the runtime configuration of the service and CLI.
type Config struct {
	Env      string         `yaml:"env"` // "development" | "production" | "test"
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Learning LearningConfig `yaml:"learning"`
	Batch    BatchConfig    `yaml:"batch"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "postgres"
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	URL string `yaml:"url"` // empty disables redis
}

type LearningConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Interval         time.Duration `yaml:"interval"`
	InitialDelay     time.Duration `yaml:"initial_delay"`
	Lookback         int           `yaml:"lookback"`
	MinDocuments     int           `yaml:"min_documents"`
	Perturbation     float64       `yaml:"perturbation"`
	QualityIncrement float64       `yaml:"quality_increment"`
	Seed             uint64        `yaml:"seed"`
	LockTTL          time.Duration `yaml:"lock_ttl"`
}

type BatchConfig struct {
	Delay   time.Duration `yaml:"delay"`
	MaxURLs int           `yaml:"max_urls"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	UserAgent string        `yaml:"user_agent"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	AdminSecret string        `yaml:"admin_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
	Endpoint    string  `yaml:"endpoint"` // OTLP/HTTP host:port; empty exports to stdout
	Insecure    bool    `yaml:"insecure"`
}

// Load reads configPath (a missing file is not an error), applies
// environment overrides and validates the result.
func Load(configPath string) (*Config, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := Default()
	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Env: defaultEnv,
		Server: ServerConfig{
			Port:           defaultPort,
			AllowedOrigins: []string{"*"},
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   2 * time.Minute,
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		Database: DatabaseConfig{
			Driver: defaultDBDriver,
			DSN:    defaultSQLiteDSN,
		},
		Learning: LearningConfig{
			Enabled:          true,
			Interval:         time.Hour,
			InitialDelay:     30 * time.Second,
			Lookback:         20,
			MinDocuments:     5,
			Perturbation:     0.1,
			QualityIncrement: 0.01,
			LockTTL:          5 * time.Minute,
		},
		Batch: BatchConfig{
			Delay:   defaultBatchDelay,
			MaxURLs: defaultBatchMaxURLs,
		},
		Fetch: FetchConfig{
			Timeout:   defaultFetchTimeout,
			MaxBytes:  defaultFetchMaxBytes,
			UserAgent: defaultUserAgent,
		},
		Cache: CacheConfig{TTL: defaultCacheTTL},
		Auth:  AuthConfig{TokenTTL: defaultTokenTTL},
		Tracing: TracingConfig{
			ServiceName: defaultServiceName,
			SampleRatio: 1,
		},
	}
}

// Validate rejects values the service cannot start with
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d, expected 1-65535", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid database.driver %q, expected sqlite or postgres", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Learning.Interval <= 0 {
		return fmt.Errorf("invalid learning.interval %s", c.Learning.Interval)
	}
	if c.Learning.MinDocuments < 1 || c.Learning.Lookback < c.Learning.MinDocuments {
		return fmt.Errorf("invalid learning window: lookback %d, min_documents %d", c.Learning.Lookback, c.Learning.MinDocuments)
	}
	if c.Learning.Perturbation < 0 {
		return fmt.Errorf("invalid learning.perturbation %v", c.Learning.Perturbation)
	}
	if c.Batch.MaxURLs < 1 {
		return fmt.Errorf("invalid batch.max_urls %d", c.Batch.MaxURLs)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("invalid tracing.sample_ratio %v, expected 0-1", c.Tracing.SampleRatio)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("SUMMARIZER_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SUMMARIZER_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v, ok := get("SUMMARIZER_DB_DRIVER"); ok {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v, ok := get("SUMMARIZER_DB_DSN"); ok {
		cfg.Database.DSN = v
	}
	if v, ok := get("SUMMARIZER_REDIS_URL"); ok {
		cfg.Redis.URL = v
	}
	if v, ok := get("SUMMARIZER_JWT_SECRET"); ok {
		cfg.Auth.JWTSecret = v
	}
	if v, ok := get("SUMMARIZER_ADMIN_SECRET"); ok {
		cfg.Auth.AdminSecret = v
	}
	if v, ok := get("SUMMARIZER_ENV"); ok {
		cfg.Env = v
	}
	if v, ok := get("OTEL_EXPORTER_OTLP_ENDPOINT"); ok {
		cfg.Tracing.Endpoint = v
	}
	if v, ok := get("OTEL_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid OTEL_ENABLED %q: %w", v, err)
		}
		cfg.Tracing.Enabled = enabled
	}
	return nil
}
