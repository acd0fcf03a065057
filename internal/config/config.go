package config

import (
	"fmt"

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

// Config holds the configuration for the admin service.
// Environment variables are automatically parsed from the TOURKITA_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override drivers
	DBDriver   string `envconfig:"DB_DRIVER" default:"auto"`
	BlobDriver string `envconfig:"BLOB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Document store
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"tourkita.db"`

	// Blob store
	BlobLocalPath     string `envconfig:"BLOB_LOCAL_PATH" default:"blobs"`
	BlobLocalBaseURL  string `envconfig:"BLOB_LOCAL_BASE_URL" default:"http://localhost:8080/blobs"`
	S3Bucket          string `envconfig:"S3_BUCKET" default:""`
	S3Region          string `envconfig:"S3_REGION" default:"auto"`
	S3Endpoint        string `envconfig:"S3_ENDPOINT" default:""`
	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID" default:""`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY" default:""`
	S3PublicBaseURL   string `envconfig:"S3_PUBLIC_BASE_URL" default:""`

	// Auth
	APIKey string `envconfig:"API_KEY" default:""`

	// Health probes
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"15"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"5"`

	// Archived-user retention, in days
	ArchiveRetentionDays int `envconfig:"ARCHIVE_RETENTION_DAYS" default:"90"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver and BlobDriver
// when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB, defaultBlob string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
		defaultBlob = "local"
	case "cloud":
		defaultDB = "postgres"
		defaultBlob = "s3"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}
	if c.BlobDriver == "" || c.BlobDriver == "auto" {
		c.BlobDriver = defaultBlob
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
	}

	allowedBlob := map[string]bool{"s3": true, "local": true}
	if !allowedBlob[c.BlobDriver] {
		return fmt.Errorf("unsupported BLOB_DRIVER: %s", c.BlobDriver)
	}
	if c.BlobDriver == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("BLOB_DRIVER=s3 requires S3_BUCKET")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with TOURKITA_
// Example: TOURKITA_HTTP_PORT, TOURKITA_POSTGRES_DSN
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TOURKITA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("blob_driver", cfg.BlobDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("api_key_present", cfg.APIKey != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	cfg := &Config{
		Environment: EnvTesting,
		BuildTarget: "local",
		DBDriver:    "sqlite",
		SQLitePath:  ":memory:",
		BlobDriver:  "local",
		HTTPPort:    8080,

		BlobLocalPath:    "blobs",
		BlobLocalBaseURL: "http://localhost:8080/blobs",

		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		ArchiveRetentionDays:      90,
	}
	return cfg
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
