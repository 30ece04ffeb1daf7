package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the famlog sync service.
// Environment variables are parsed from the FAMLOG_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP control surface
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Local store
	SQLitePath string `envconfig:"SQLITE_PATH" default:".famlog/famlog.db"`

	// Remote document store
	RemoteBaseURL string `envconfig:"REMOTE_BASE_URL" default:"http://localhost:9500"`
	RemoteAPIKey  string `envconfig:"REMOTE_API_KEY" default:""`

	// Sync cadence
	SyncDebounceMs     int `envconfig:"SYNC_DEBOUNCE_MS" default:"500"`
	StatusClearSeconds int `envconfig:"STATUS_CLEAR_SECONDS" default:"3"`

	// Health probing
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates derived settings.
func (c *Config) ResolveDefaults() error {
	if c.SyncDebounceMs <= 0 {
		c.SyncDebounceMs = 500
	}
	if c.StatusClearSeconds <= 0 {
		c.StatusClearSeconds = 3
	}
	if c.SQLitePath == "" {
		return fmt.Errorf("FAMLOG_SQLITE_PATH must not be empty")
	}
	if c.RemoteBaseURL == "" {
		return fmt.Errorf("FAMLOG_REMOTE_BASE_URL must not be empty")
	}
	return nil
}

// SyncDebounce returns the orchestrator debounce interval.
func (c *Config) SyncDebounce() time.Duration {
	return time.Duration(c.SyncDebounceMs) * time.Millisecond
}

// StatusClear returns how long an error/success status lingers before
// auto-clearing back to idle.
func (c *Config) StatusClear() time.Duration {
	return time.Duration(c.StatusClearSeconds) * time.Second
}

// New creates a new Config by parsing environment variables.
// Variables are prefixed with FAMLOG_, e.g. FAMLOG_HTTP_PORT.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("FAMLOG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("sqlite_path", cfg.SQLitePath).
		Str("remote_base_url", cfg.RemoteBaseURL).
		Int("sync_debounce_ms", cfg.SyncDebounceMs).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		SQLitePath:                "famlog-test.db",
		RemoteBaseURL:             "http://localhost:9500",
		SyncDebounceMs:            10,
		StatusClearSeconds:        1,
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 5,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
