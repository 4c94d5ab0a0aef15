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

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvFiles are loaded, in order, by LoadConfigWithEnvOverrides. Variables
// already present in the environment are never overwritten, so earlier
// files win over later ones.
var EnvFiles = []string{".env.local", ".env"}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// An empty path means DefaultPath, which may be absent. An explicit path
// must exist. The result is not validated: callers apply their overrides
// and then call Validate.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case optional && errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Decoding over the defaults keeps any field the file leaves out.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads the YAML file, then the .env files, then
// applies environment variable overrides.
//
// The loading sequence is:
//  1. Defaults
//  2. YAML file
//  3. .env files (never overriding the real environment)
//  4. GitHub Actions inputs (INPUT_*) and the GITHUB_TOKEN/GITHUB_REPOSITORY fallbacks
//  5. PAGESWEEP_SECTION_FIELD variables
//
// Malformed numeric or boolean variables are reported as a ValidationError.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := loadEnvFiles(EnvFiles); err != nil {
		return nil, err
	}

	var errs []FieldError
	errs = append(errs, applyActionInputs(cfg)...)
	errs = append(errs, applyEnvOverrides(cfg)...)
	if len(errs) > 0 {
		return nil, ValidationError{Errors: errs}
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %q: %w", f, err)
		}
	}
	return nil
}

// applyActionInputs maps the inputs GitHub Actions exposes as INPUT_<NAME>
// variables. Hyphens in input names are preserved by the runner.
func applyActionInputs(cfg *Config) []FieldError {
	var errs []FieldError

	if val := os.Getenv("INPUT_CLOUDFLARE-API-TOKEN"); val != "" {
		cfg.Cloudflare.APIToken = val
	}
	if val := os.Getenv("INPUT_CLOUDFLARE-ACCOUNT-ID"); val != "" {
		cfg.Cloudflare.AccountID = val
	}
	if val := os.Getenv("INPUT_CLOUDFLARE-PROJECT-NAME"); val != "" {
		cfg.Cloudflare.ProjectName = val
	}
	if val := os.Getenv("INPUT_GITHUB-TOKEN"); val != "" {
		cfg.Branches.GitHub.Token = val
	}
	if val := os.Getenv("INPUT_CLEANUP-TYPES"); val != "" {
		cfg.Retention.Mode = val
	}
	if val := os.Getenv("INPUT_PREVIEW-KEEP"); val != "" {
		errs = setInt(errs, "retention.preview_keep", "INPUT_PREVIEW-KEEP", val, &cfg.Retention.PreviewKeep)
	}
	if val := os.Getenv("INPUT_PRODUCTION-KEEP"); val != "" {
		errs = setInt(errs, "retention.production_keep", "INPUT_PRODUCTION-KEEP", val, &cfg.Retention.ProductionKeep)
	}
	if val := os.Getenv("INPUT_DRY-RUN"); val != "" {
		// Only the literal "true" enables a dry run.
		cfg.Retention.DryRun = strings.TrimSpace(val) == "true"
	}

	if cfg.Branches.GitHub.Token == "" {
		cfg.Branches.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.Branches.GitHub.Repository == "" {
		cfg.Branches.GitHub.Repository = os.Getenv("GITHUB_REPOSITORY")
	}
	if cfg.Run.SummaryPath == "" {
		cfg.Run.SummaryPath = os.Getenv("GITHUB_STEP_SUMMARY")
	}

	return errs
}

// applyEnvOverrides applies PAGESWEEP_SECTION_FIELD variables.
func applyEnvOverrides(cfg *Config) []FieldError {
	var errs []FieldError

	// Cloudflare overrides
	if val := os.Getenv("PAGESWEEP_CLOUDFLARE_API_TOKEN"); val != "" {
		cfg.Cloudflare.APIToken = val
	}
	if val := os.Getenv("PAGESWEEP_CLOUDFLARE_ACCOUNT_ID"); val != "" {
		cfg.Cloudflare.AccountID = val
	}
	if val := os.Getenv("PAGESWEEP_CLOUDFLARE_PROJECT_NAME"); val != "" {
		cfg.Cloudflare.ProjectName = val
	}
	if val := os.Getenv("PAGESWEEP_CLOUDFLARE_BASE_URL"); val != "" {
		cfg.Cloudflare.BaseURL = val
	}
	if val := os.Getenv("PAGESWEEP_CLOUDFLARE_TIMEOUT"); val != "" {
		errs = setDuration(errs, "cloudflare.timeout", "PAGESWEEP_CLOUDFLARE_TIMEOUT", val, &cfg.Cloudflare.Timeout)
	}
	if val := os.Getenv("PAGESWEEP_CLOUDFLARE_REQUESTS_PER_SECOND"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Cloudflare.RequestsPerSecond = f
		} else {
			errs = append(errs, envError("cloudflare.requests_per_second", "PAGESWEEP_CLOUDFLARE_REQUESTS_PER_SECOND", val))
		}
	}
	if val := os.Getenv("PAGESWEEP_CLOUDFLARE_FORCE_DELETE"); val != "" {
		errs = setBool(errs, "cloudflare.force_delete", "PAGESWEEP_CLOUDFLARE_FORCE_DELETE", val, &cfg.Cloudflare.ForceDelete)
	}

	// Branch registry overrides
	if val := os.Getenv("PAGESWEEP_BRANCHES_SOURCE"); val != "" {
		cfg.Branches.Source = val
	}
	if val := os.Getenv("PAGESWEEP_GITHUB_TOKEN"); val != "" {
		cfg.Branches.GitHub.Token = val
	}
	if val := os.Getenv("PAGESWEEP_GITHUB_REPOSITORY"); val != "" {
		cfg.Branches.GitHub.Repository = val
	}
	if val := os.Getenv("PAGESWEEP_GITHUB_BASE_URL"); val != "" {
		cfg.Branches.GitHub.BaseURL = val
	}
	if val := os.Getenv("PAGESWEEP_GIT_URL"); val != "" {
		cfg.Branches.Git.URL = val
	}
	if val := os.Getenv("PAGESWEEP_GIT_AUTH_TYPE"); val != "" {
		cfg.Branches.Git.Auth.Type = val
	}
	if val := os.Getenv("PAGESWEEP_GIT_AUTH_TOKEN"); val != "" {
		cfg.Branches.Git.Auth.Token = val
	}
	if val := os.Getenv("PAGESWEEP_GIT_AUTH_SSH_KEY_PATH"); val != "" {
		cfg.Branches.Git.Auth.SSHKeyPath = val
	}

	// Retention overrides
	if val := os.Getenv("PAGESWEEP_RETENTION_MODE"); val != "" {
		cfg.Retention.Mode = val
	}
	if val := os.Getenv("PAGESWEEP_RETENTION_PREVIEW_KEEP"); val != "" {
		errs = setInt(errs, "retention.preview_keep", "PAGESWEEP_RETENTION_PREVIEW_KEEP", val, &cfg.Retention.PreviewKeep)
	}
	if val := os.Getenv("PAGESWEEP_RETENTION_PRODUCTION_KEEP"); val != "" {
		errs = setInt(errs, "retention.production_keep", "PAGESWEEP_RETENTION_PRODUCTION_KEEP", val, &cfg.Retention.ProductionKeep)
	}
	if val := os.Getenv("PAGESWEEP_RETENTION_DRY_RUN"); val != "" {
		errs = setBool(errs, "retention.dry_run", "PAGESWEEP_RETENTION_DRY_RUN", val, &cfg.Retention.DryRun)
	}
	if val := os.Getenv("PAGESWEEP_RETENTION_FAIL_ON_ERROR"); val != "" {
		errs = setBool(errs, "retention.fail_on_error", "PAGESWEEP_RETENTION_FAIL_ON_ERROR", val, &cfg.Retention.FailOnError)
	}

	// Run overrides
	if val := os.Getenv("PAGESWEEP_RUN_TIMEOUT"); val != "" {
		errs = setDuration(errs, "run.timeout", "PAGESWEEP_RUN_TIMEOUT", val, &cfg.Run.Timeout)
	}
	if val := os.Getenv("PAGESWEEP_RUN_OUTPUT"); val != "" {
		cfg.Run.Output = val
	}
	if val := os.Getenv("PAGESWEEP_RUN_SUMMARY_PATH"); val != "" {
		cfg.Run.SummaryPath = val
	}

	// History overrides
	if val := os.Getenv("PAGESWEEP_HISTORY_ENABLED"); val != "" {
		errs = setBool(errs, "history.enabled", "PAGESWEEP_HISTORY_ENABLED", val, &cfg.History.Enabled)
	}
	if val := os.Getenv("PAGESWEEP_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("PAGESWEEP_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PAGESWEEP_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PAGESWEEP_TELEMETRY_METRICS_ENABLED"); val != "" {
		errs = setBool(errs, "telemetry.metrics.enabled", "PAGESWEEP_TELEMETRY_METRICS_ENABLED", val, &cfg.Telemetry.Metrics.Enabled)
	}
	if val := os.Getenv("PAGESWEEP_TELEMETRY_METRICS_TEXTFILE_PATH"); val != "" {
		cfg.Telemetry.Metrics.TextfilePath = val
	}
	if val := os.Getenv("PAGESWEEP_TELEMETRY_METRICS_PUSHGATEWAY_URL"); val != "" {
		cfg.Telemetry.Metrics.PushgatewayURL = val
	}
	if val := os.Getenv("PAGESWEEP_TELEMETRY_TRACING_ENABLED"); val != "" {
		errs = setBool(errs, "telemetry.tracing.enabled", "PAGESWEEP_TELEMETRY_TRACING_ENABLED", val, &cfg.Telemetry.Tracing.Enabled)
	}
	if val := os.Getenv("PAGESWEEP_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}

	return errs
}

func envError(field, env, val string) FieldError {
	return FieldError{
		Field:   field,
		Message: fmt.Sprintf("invalid value %q in %s", val, env),
	}
}

func setInt(errs []FieldError, field, env, val string, dst *int) []FieldError {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return append(errs, envError(field, env, val))
	}
	*dst = i
	return errs
}

func setBool(errs []FieldError, field, env, val string, dst *bool) []FieldError {
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return append(errs, envError(field, env, val))
	}
	*dst = b
	return errs
}

func setDuration(errs []FieldError, field, env, val string, dst *time.Duration) []FieldError {
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil {
		return append(errs, envError(field, env, val))
	}
	*dst = d
	return errs
}
