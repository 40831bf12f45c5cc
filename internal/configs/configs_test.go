package configs

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.FlapThreshold != 5 {
		t.Errorf("FlapThreshold = %d, want 5", cfg.FlapThreshold)
	}
	if cfg.DashboardInterval != 10*time.Second {
		t.Errorf("DashboardInterval = %s, want 10s", cfg.DashboardInterval)
	}
	if cfg.JWTSecret == "" {
		t.Error("JWTSecret empty; development default not applied")
	}
	if cfg.S3Enabled() {
		t.Error("S3Enabled() = true without S3 configuration")
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com,https://admin.example.com")
	t.Setenv("FLAP_THRESHOLD", "3")
	t.Setenv("DASHBOARD_INTERVAL", "30s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 entries", cfg.AllowedOrigins)
	}
	if cfg.FlapThreshold != 3 {
		t.Errorf("FlapThreshold = %d, want 3", cfg.FlapThreshold)
	}
	if cfg.DashboardInterval != 30*time.Second {
		t.Errorf("DashboardInterval = %s, want 30s", cfg.DashboardInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *AppConfig) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *AppConfig) { c.Port = 80 },
			wantErr: true,
		},
		{
			name:    "missing secret in production",
			mutate:  func(c *AppConfig) { c.Environment = "production"; c.JWTSecret = "" },
			wantErr: true,
		},
		{
			name:   "missing secret in development falls back",
			mutate: func(c *AppConfig) { c.JWTSecret = "" },
		},
		{
			name:    "zero flap threshold",
			mutate:  func(c *AppConfig) { c.FlapThreshold = 0 },
			wantErr: true,
		},
		{
			name:    "non-positive dashboard interval",
			mutate:  func(c *AppConfig) { c.DashboardInterval = 0 },
			wantErr: true,
		},
		{
			name:    "partial S3 configuration",
			mutate:  func(c *AppConfig) { c.S3BucketName = "photos" },
			wantErr: true,
		},
		{
			name: "complete S3 configuration",
			mutate: func(c *AppConfig) {
				c.S3BucketName = "photos"
				c.S3Endpoint = "https://s3.example.com"
				c.S3AccessKeyID = "key"
				c.S3SecretAccessKey = "secret"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{
				Environment:           "development",
				Port:                  8080,
				JWTSecret:             "secret",
				FlapThreshold:         5,
				DashboardInterval:     10 * time.Second,
				SystemMetricsInterval: 15 * time.Second,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() succeeded, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}
