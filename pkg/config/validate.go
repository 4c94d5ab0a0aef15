package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "retention.mode").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Has reports whether field failed validation.
func (e ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validate checks the whole configuration and returns a ValidationError
// listing every problem, or nil. It performs no network access.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateCloudflare(&cfg.Cloudflare)...)
	errs = append(errs, validateBranches(&cfg.Branches)...)
	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validateRun(&cfg.Run)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateCloudflare(cfg *CloudflareConfig) []FieldError {
	var errs []FieldError

	if cfg.APIToken == "" {
		errs = append(errs, FieldError{
			Field:   "cloudflare.api_token",
			Message: "API token is required (set INPUT_CLOUDFLARE-API-TOKEN or PAGESWEEP_CLOUDFLARE_API_TOKEN)",
		})
	}
	if cfg.AccountID == "" {
		errs = append(errs, FieldError{Field: "cloudflare.account_id", Message: "account ID is required"})
	}
	if cfg.ProjectName == "" {
		errs = append(errs, FieldError{Field: "cloudflare.project_name", Message: "project name is required"})
	}
	if err := validateHTTPURL(cfg.BaseURL); err != nil {
		errs = append(errs, FieldError{Field: "cloudflare.base_url", Message: err.Error()})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{Field: "cloudflare.timeout", Message: "timeout must be non-negative"})
	}
	if cfg.RequestsPerSecond < 0 {
		errs = append(errs, FieldError{
			Field:   "cloudflare.requests_per_second",
			Message: "requests per second must be non-negative (0 disables the limit)",
		})
	}
	if cfg.Burst < 0 {
		errs = append(errs, FieldError{Field: "cloudflare.burst", Message: "burst must be non-negative"})
	}

	return errs
}

func validateBranches(cfg *BranchesConfig) []FieldError {
	var errs []FieldError

	switch cfg.Source {
	case "github":
		if cfg.GitHub.Token == "" {
			errs = append(errs, FieldError{
				Field:   "branches.github.token",
				Message: "GitHub token is required (set INPUT_GITHUB-TOKEN or GITHUB_TOKEN)",
			})
		}
		if cfg.GitHub.Repository == "" {
			errs = append(errs, FieldError{
				Field:   "branches.github.repository",
				Message: "repository is required (owner/repo, or set GITHUB_REPOSITORY)",
			})
		} else if owner, repo, ok := strings.Cut(cfg.GitHub.Repository, "/"); !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
			errs = append(errs, FieldError{
				Field:   "branches.github.repository",
				Message: fmt.Sprintf("invalid repository %q: expected owner/repo", cfg.GitHub.Repository),
			})
		}
		if err := validateHTTPURL(cfg.GitHub.BaseURL); err != nil {
			errs = append(errs, FieldError{Field: "branches.github.base_url", Message: err.Error()})
		}

	case "git":
		if cfg.Git.URL == "" {
			errs = append(errs, FieldError{Field: "branches.git.url", Message: "remote URL is required when source is git"})
		}
		switch cfg.Git.Auth.Type {
		case "none", "":
		case "token":
			if cfg.Git.Auth.Token == "" {
				errs = append(errs, FieldError{Field: "branches.git.auth.token", Message: "token is required for token auth"})
			}
		case "ssh":
			if cfg.Git.Auth.SSHKeyPath == "" {
				errs = append(errs, FieldError{Field: "branches.git.auth.ssh_key_path", Message: "key path is required for ssh auth"})
			}
		default:
			errs = append(errs, FieldError{
				Field:   "branches.git.auth.type",
				Message: fmt.Sprintf("invalid auth type %q (must be token, ssh, or none)", cfg.Git.Auth.Type),
			})
		}

	default:
		errs = append(errs, FieldError{
			Field:   "branches.source",
			Message: fmt.Sprintf("invalid source %q (must be github or git)", cfg.Source),
		})
	}

	return errs
}

func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	switch cfg.Mode {
	case "preview", "production", "all":
	default:
		errs = append(errs, FieldError{
			Field:   "retention.mode",
			Message: fmt.Sprintf("invalid mode %q (must be preview, production, or all)", cfg.Mode),
		})
	}
	if cfg.PreviewKeep < 0 {
		errs = append(errs, FieldError{Field: "retention.preview_keep", Message: "must be non-negative"})
	}
	if cfg.ProductionKeep < 0 {
		errs = append(errs, FieldError{Field: "retention.production_keep", Message: "must be non-negative"})
	}

	return errs
}

func validateRun(cfg *RunConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{Field: "run.timeout", Message: "timeout must be positive"})
	}
	if cfg.Output != "text" && cfg.Output != "json" {
		errs = append(errs, FieldError{
			Field:   "run.output",
			Message: fmt.Sprintf("invalid output %q (must be text or json)", cfg.Output),
		})
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	if cfg.Enabled && cfg.Path == "" {
		return []FieldError{{Field: "history.path", Message: "path is required when history is enabled"}}
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.TextfilePath == "" && cfg.Metrics.PushgatewayURL == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics",
				Message: "textfile_path or pushgateway_url is required when metrics are enabled",
			})
		}
		if cfg.Metrics.PushgatewayURL != "" {
			if err := validateHTTPURL(cfg.Metrics.PushgatewayURL); err != nil {
				errs = append(errs, FieldError{Field: "telemetry.metrics.pushgateway_url", Message: err.Error()})
			}
		}
	}

	if cfg.Tracing.Enabled {
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "endpoint is required when tracing is enabled"})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: fmt.Sprintf("sample ratio must be between 0 and 1, got %g", cfg.Tracing.SampleRatio),
			})
		}
	}

	return errs
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: host is required", raw)
	}
	return nil
}
