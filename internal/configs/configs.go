/*
Package configs is responsible for loading and validating the application's configuration.

Values come from environment variables (with an optional .env file for local
development), parsed into a typed struct. Tunables of the messaging core —
the dashboard tick interval and the flapping-handshake ceiling — live here
rather than being hard-coded.
*/
package configs

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig contains all configuration parameters required for the server to run.
type AppConfig struct {
	// General Server Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// Security Settings
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	JWTSecret      string   `env:"JWT_SECRET"`

	// Messaging Core Settings
	// FlapThreshold is the number of consecutive failed handshakes after which
	// an identity is flagged as flapping on the ops dashboard.
	FlapThreshold int `env:"FLAP_THRESHOLD" envDefault:"5"`

	// DashboardInterval is the fixed period between dashboard snapshot broadcasts.
	DashboardInterval time.Duration `env:"DASHBOARD_INTERVAL" envDefault:"10s"`

	// SystemMetricsInterval is the cadence of the host CPU/memory metric source.
	SystemMetricsInterval time.Duration `env:"SYSTEM_METRICS_INTERVAL" envDefault:"15s"`

	// S3 Storage Settings (photo/attachment uploads; optional — presign
	// endpoints are disabled when unset)
	S3BucketName      string `env:"S3_BUCKET_NAME"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	// Database Settings (delivery journal; optional — the queue runs purely
	// in memory when unset)
	DatabaseDSN string `env:"DATABASE_URL"`
}

// LoadConfig reads configuration from the environment, with .env as a
// development convenience. Priority: environment variables > .env > defaults.
func LoadConfig() (*AppConfig, error) {
	// OK if absent; production containers set real environment variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration invariants that env parsing cannot express.
func (c *AppConfig) Validate() error {
	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port number %d is outside the allowed range (1024-65535)", c.Port)
	}

	if c.JWTSecret == "" {
		if c.Environment != "development" {
			return fmt.Errorf("JWT_SECRET environment variable is required in %s environment", c.Environment)
		}
		c.JWTSecret = "your_default_insecure_secret_key_change_me"
	}

	if c.FlapThreshold < 1 {
		return fmt.Errorf("FLAP_THRESHOLD must be >= 1, got %d", c.FlapThreshold)
	}

	if c.DashboardInterval <= 0 {
		return fmt.Errorf("DASHBOARD_INTERVAL must be positive, got %s", c.DashboardInterval)
	}

	if c.SystemMetricsInterval <= 0 {
		return fmt.Errorf("SYSTEM_METRICS_INTERVAL must be positive, got %s", c.SystemMetricsInterval)
	}

	// S3 settings are all-or-nothing.
	s3Set := 0
	for _, v := range []string{c.S3BucketName, c.S3Endpoint, c.S3AccessKeyID, c.S3SecretAccessKey} {
		if v != "" {
			s3Set++
		}
	}
	if s3Set != 0 && s3Set != 4 {
		return fmt.Errorf("S3 configuration is incomplete: bucket, endpoint, access key, and secret must all be set")
	}

	return nil
}

// S3Enabled reports whether the object-storage boundary is configured.
func (c *AppConfig) S3Enabled() bool {
	return c.S3BucketName != ""
}
