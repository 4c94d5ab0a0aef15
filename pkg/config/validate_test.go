package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := MinimalConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_MissingCredentials(t *testing.T) {
	cfg := Default()

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	for _, field := range []string{
		"cloudflare.api_token",
		"cloudflare.account_id",
		"cloudflare.project_name",
		"branches.github.token",
		"branches.github.repository",
	} {
		if !validationErr.Has(field) {
			t.Errorf("expected error for %s", field)
		}
	}

	if !strings.Contains(validationErr.Error(), "validation failed with") {
		t.Errorf("error message should mention multiple errors: %s", validationErr.Error())
	}
}

// TestValidate_Fields tests individual validation rules.
func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(cfg *Config)
		errorField string
	}{
		{
			name:       "invalid mode",
			mutate:     func(cfg *Config) { cfg.Retention.Mode = "staging" },
			errorField: "retention.mode",
		},
		{
			name:       "negative preview keep",
			mutate:     func(cfg *Config) { cfg.Retention.PreviewKeep = -1 },
			errorField: "retention.preview_keep",
		},
		{
			name:       "negative production keep",
			mutate:     func(cfg *Config) { cfg.Retention.ProductionKeep = -3 },
			errorField: "retention.production_keep",
		},
		{
			name:       "malformed repository",
			mutate:     func(cfg *Config) { cfg.Branches.GitHub.Repository = "acme" },
			errorField: "branches.github.repository",
		},
		{
			name:       "unknown branch source",
			mutate:     func(cfg *Config) { cfg.Branches.Source = "gitlab" },
			errorField: "branches.source",
		},
		{
			name:       "git source without url",
			mutate:     func(cfg *Config) { cfg.Branches.Source = "git" },
			errorField: "branches.git.url",
		},
		{
			name: "git token auth without token",
			mutate: func(cfg *Config) {
				cfg.Branches.Source = "git"
				cfg.Branches.Git.URL = "https://git.example.com/acme/site.git"
				cfg.Branches.Git.Auth.Type = "token"
			},
			errorField: "branches.git.auth.token",
		},
		{
			name:       "bad cloudflare url",
			mutate:     func(cfg *Config) { cfg.Cloudflare.BaseURL = "ftp://example.com" },
			errorField: "cloudflare.base_url",
		},
		{
			name:       "negative rate",
			mutate:     func(cfg *Config) { cfg.Cloudflare.RequestsPerSecond = -1 },
			errorField: "cloudflare.requests_per_second",
		},
		{
			name:       "zero run timeout",
			mutate:     func(cfg *Config) { cfg.Run.Timeout = 0 },
			errorField: "run.timeout",
		},
		{
			name:       "unknown output",
			mutate:     func(cfg *Config) { cfg.Run.Output = "yaml" },
			errorField: "run.output",
		},
		{
			name:       "bad log level",
			mutate:     func(cfg *Config) { cfg.Telemetry.Logging.Level = "verbose" },
			errorField: "telemetry.logging.level",
		},
		{
			name:       "metrics without sink",
			mutate:     func(cfg *Config) { cfg.Telemetry.Metrics.Enabled = true },
			errorField: "telemetry.metrics",
		},
		{
			name: "bad sample ratio",
			mutate: func(cfg *Config) {
				cfg.Telemetry.Tracing.Enabled = true
				cfg.Telemetry.Tracing.SampleRatio = 1.5
			},
			errorField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var validationErr ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !validationErr.Has(tt.errorField) {
				t.Errorf("expected error for field %q, got: %v", tt.errorField, err)
			}
		})
	}
}

func TestValidate_GitSource(t *testing.T) {
	cfg := NewTestConfig().
		WithGitSource("https://git.example.com/acme/site.git", GitAuthConfig{Type: "token", Token: "t"}).
		Build()
	cfg.Branches.GitHub = GitHubConfig{BaseURL: DefaultGitHubBaseURL}

	if err := Validate(cfg); err != nil {
		t.Errorf("expected git source without GitHub credentials to validate, got: %v", err)
	}
}

func TestValidate_ZeroKeepsAllowed(t *testing.T) {
	cfg := NewTestConfig().WithMode("all").WithKeeps(0, 0).Build()

	if err := Validate(cfg); err != nil {
		t.Errorf("expected zero keeps to be valid, got: %v", err)
	}
}

func TestConfig_Redacted(t *testing.T) {
	cfg := MinimalConfig()
	redacted := cfg.Redacted()

	if redacted.Cloudflare.APIToken == cfg.Cloudflare.APIToken {
		t.Error("expected cloudflare token to be masked")
	}
	if redacted.Branches.GitHub.Token == cfg.Branches.GitHub.Token {
		t.Error("expected github token to be masked")
	}
	if cfg.Cloudflare.APIToken != "cf-test-token" {
		t.Error("expected original config to be unchanged")
	}
	if redacted.Branches.Git.Auth.Token != "" {
		t.Error("expected empty secrets to stay empty")
	}
}
