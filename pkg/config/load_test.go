package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// clearEnv blanks every variable the loader reads so the host
// environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_REPOSITORY", "GITHUB_STEP_SUMMARY",
		"INPUT_CLOUDFLARE-API-TOKEN", "INPUT_CLOUDFLARE-ACCOUNT-ID",
		"INPUT_CLOUDFLARE-PROJECT-NAME", "INPUT_GITHUB-TOKEN",
		"INPUT_CLEANUP-TYPES", "INPUT_PREVIEW-KEEP", "INPUT_PRODUCTION-KEEP",
		"INPUT_DRY-RUN", "PAGESWEEP_CLOUDFLARE_API_TOKEN", "PAGESWEEP_RETENTION_MODE",
		"PAGESWEEP_RETENTION_PREVIEW_KEEP", "PAGESWEEP_RUN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pagesweep.yaml", `
cloudflare:
  account_id: "acct"
  project_name: "docs"
  requests_per_second: 0
branches:
  github:
    repository: "acme/docs"
retention:
  mode: " ALL "
  preview_keep: 3
  production_keep: 0
run:
  timeout: "2m"
telemetry:
  logging:
    level: "debug"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Cloudflare.AccountID != "acct" || cfg.Cloudflare.ProjectName != "docs" {
		t.Errorf("unexpected cloudflare config: %+v", cfg.Cloudflare)
	}
	if cfg.Cloudflare.RequestsPerSecond != 0 {
		t.Errorf("expected rate limit disabled, got %g", cfg.Cloudflare.RequestsPerSecond)
	}
	if cfg.Retention.Mode != "all" {
		t.Errorf("expected mode all, got %q", cfg.Retention.Mode)
	}
	if cfg.Retention.PreviewKeep != 3 {
		t.Errorf("expected preview keep 3, got %d", cfg.Retention.PreviewKeep)
	}
	if cfg.Retention.ProductionKeep != 0 {
		t.Errorf("expected explicit production keep 0, got %d", cfg.Retention.ProductionKeep)
	}
	if cfg.Run.Timeout != 2*time.Minute {
		t.Errorf("expected run timeout 2m, got %s", cfg.Run.Timeout)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Telemetry.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Telemetry.Logging.Format != DefaultLogFormat {
		t.Errorf("expected default format, got %q", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfig_KeepsDefaultsWhenOmitted(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", "retention:\n  mode: production\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Retention.PreviewKeep != 1 || cfg.Retention.ProductionKeep != 1 {
		t.Errorf("expected default keeps, got %d/%d", cfg.Retention.PreviewKeep, cfg.Retention.ProductionKeep)
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Retention.Mode != DefaultRetentionMode {
		t.Errorf("expected default mode, got %q", cfg.Retention.Mode)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("missing default file is fine", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Retention.Mode != DefaultRetentionMode {
			t.Errorf("expected defaults, got mode %q", cfg.Retention.Mode)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "bad.yaml", "retention: [unclosed")
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "typo.yaml", "retention:\n  preview_kept: 2\n")
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for unknown field")
		}
	})
}

// TestLoadConfigWithEnvOverrides_ActionInputs tests the GitHub Actions input mapping.
func TestLoadConfigWithEnvOverrides_ActionInputs(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	t.Setenv("INPUT_CLOUDFLARE-API-TOKEN", "cf-token")
	t.Setenv("INPUT_CLOUDFLARE-ACCOUNT-ID", "acct")
	t.Setenv("INPUT_CLOUDFLARE-PROJECT-NAME", "docs")
	t.Setenv("INPUT_CLEANUP-TYPES", " Production ")
	t.Setenv("INPUT_PREVIEW-KEEP", "4")
	t.Setenv("INPUT_PRODUCTION-KEEP", "0")
	t.Setenv("INPUT_DRY-RUN", "true")
	t.Setenv("GITHUB_TOKEN", "gh-fallback")
	t.Setenv("GITHUB_REPOSITORY", "acme/docs")
	t.Setenv("GITHUB_STEP_SUMMARY", "/tmp/summary.md")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Cloudflare.APIToken != "cf-token" {
		t.Errorf("expected cloudflare token from input")
	}
	if cfg.Retention.Mode != "production" {
		t.Errorf("expected normalized mode production, got %q", cfg.Retention.Mode)
	}
	if cfg.Retention.PreviewKeep != 4 || cfg.Retention.ProductionKeep != 0 {
		t.Errorf("unexpected keeps %d/%d", cfg.Retention.PreviewKeep, cfg.Retention.ProductionKeep)
	}
	if !cfg.Retention.DryRun {
		t.Error("expected dry run from input")
	}
	if cfg.Branches.GitHub.Token != "gh-fallback" {
		t.Errorf("expected GITHUB_TOKEN fallback, got %q", cfg.Branches.GitHub.Token)
	}
	if cfg.Branches.GitHub.Repository != "acme/docs" {
		t.Errorf("expected repository from GITHUB_REPOSITORY, got %q", cfg.Branches.GitHub.Repository)
	}
	if cfg.Run.SummaryPath != "/tmp/summary.md" {
		t.Errorf("expected summary path from GITHUB_STEP_SUMMARY, got %q", cfg.Run.SummaryPath)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected loaded config to validate: %v", err)
	}
}

func TestLoadConfigWithEnvOverrides_DryRunOnlyLiteralTrue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"false", false},
		{"TRUE", false},
		{"yes", false},
		{"1", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Chdir(t.TempDir())
			clearEnv(t)
			t.Setenv("INPUT_DRY-RUN", tt.value)

			cfg, err := LoadConfigWithEnvOverrides("")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Retention.DryRun != tt.want {
				t.Errorf("INPUT_DRY-RUN=%q: got dry run %v, want %v", tt.value, cfg.Retention.DryRun, tt.want)
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	t.Setenv("INPUT_GITHUB-TOKEN", "from-input")
	t.Setenv("GITHUB_TOKEN", "from-fallback")
	t.Setenv("INPUT_CLEANUP-TYPES", "preview")
	t.Setenv("PAGESWEEP_RETENTION_MODE", "all")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Branches.GitHub.Token != "from-input" {
		t.Errorf("expected input to win over GITHUB_TOKEN, got %q", cfg.Branches.GitHub.Token)
	}
	if cfg.Retention.Mode != "all" {
		t.Errorf("expected PAGESWEEP_ variable to win, got %q", cfg.Retention.Mode)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidNumbers(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	t.Setenv("INPUT_PREVIEW-KEEP", "two")
	t.Setenv("PAGESWEEP_RUN_TIMEOUT", "soon")

	_, err := LoadConfigWithEnvOverrides("")

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !validationErr.Has("retention.preview_keep") {
		t.Error("expected retention.preview_keep error")
	}
	if !validationErr.Has("run.timeout") {
		t.Error("expected run.timeout error")
	}
}

func TestLoadConfigWithEnvOverrides_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	clearEnv(t)

	writeFile(t, dir, ".env.local", "PAGESWEEP_CLOUDFLARE_API_TOKEN=from-local\n")
	writeFile(t, dir, ".env", "PAGESWEEP_CLOUDFLARE_API_TOKEN=from-dotenv\nPAGESWEEP_RETENTION_PREVIEW_KEEP=5\n")

	// t.Setenv restores these when the test ends; godotenv only fills
	// variables that are unset, so unset them first.
	t.Setenv("PAGESWEEP_CLOUDFLARE_API_TOKEN", "")
	t.Setenv("PAGESWEEP_RETENTION_PREVIEW_KEEP", "")
	os.Unsetenv("PAGESWEEP_CLOUDFLARE_API_TOKEN")
	os.Unsetenv("PAGESWEEP_RETENTION_PREVIEW_KEEP")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cloudflare.APIToken != "from-local" {
		t.Errorf("expected .env.local to win, got %q", cfg.Cloudflare.APIToken)
	}
	if cfg.Retention.PreviewKeep != 5 {
		t.Errorf("expected preview keep from .env, got %d", cfg.Retention.PreviewKeep)
	}
}
