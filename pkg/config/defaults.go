package config

import (
	"strings"
	"time"
)

// Default values for configuration fields.
const (
	DefaultPath = "pagesweep.yaml"

	DefaultCloudflareBaseURL  = "https://api.cloudflare.com/client/v4"
	DefaultCloudflareTimeout  = 30 * time.Second
	DefaultRequestsPerSecond  = 4.0
	DefaultCloudflareBurst    = 1
	DefaultBranchSource       = "github"
	DefaultGitHubBaseURL      = "https://api.github.com"
	DefaultGitHubTimeout      = 30 * time.Second
	DefaultGitAuthType        = "none"
	DefaultRetentionMode      = "preview"
	DefaultPreviewKeep        = 1
	DefaultProductionKeep     = 1
	DefaultRunTimeout         = 10 * time.Minute
	DefaultOutput             = "text"
	DefaultHistoryPath        = ".pagesweep/history.db"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultMetricsJob         = "pagesweep"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingServiceName = "pagesweep"
	DefaultTracingSampleRatio = 1.0
)

// Default returns a configuration with every default applied. Fields for
// which zero is meaningful (keep counts, request rate, sample ratio) are
// set here rather than in ApplyDefaults.
func Default() *Config {
	cfg := &Config{
		Cloudflare: CloudflareConfig{
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Retention: RetentionConfig{
			PreviewKeep:    DefaultPreviewKeep,
			ProductionKeep: DefaultProductionKeep,
		},
		Telemetry: TelemetryConfig{
			Tracing: TracingConfig{SampleRatio: DefaultTracingSampleRatio},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets defaults for any fields that have zero values and
// normalizes enumerations. It is idempotent.
func ApplyDefaults(cfg *Config) {
	// Cloudflare defaults
	if cfg.Cloudflare.BaseURL == "" {
		cfg.Cloudflare.BaseURL = DefaultCloudflareBaseURL
	}
	if cfg.Cloudflare.Timeout == 0 {
		cfg.Cloudflare.Timeout = DefaultCloudflareTimeout
	}
	if cfg.Cloudflare.Burst == 0 {
		cfg.Cloudflare.Burst = DefaultCloudflareBurst
	}

	// Branch registry defaults
	cfg.Branches.Source = strings.ToLower(strings.TrimSpace(cfg.Branches.Source))
	if cfg.Branches.Source == "" {
		cfg.Branches.Source = DefaultBranchSource
	}
	if cfg.Branches.GitHub.BaseURL == "" {
		cfg.Branches.GitHub.BaseURL = DefaultGitHubBaseURL
	}
	if cfg.Branches.GitHub.Timeout == 0 {
		cfg.Branches.GitHub.Timeout = DefaultGitHubTimeout
	}
	if cfg.Branches.Git.Auth.Type == "" {
		cfg.Branches.Git.Auth.Type = DefaultGitAuthType
	}

	// Retention defaults
	cfg.Retention.Mode = strings.ToLower(strings.TrimSpace(cfg.Retention.Mode))
	if cfg.Retention.Mode == "" {
		cfg.Retention.Mode = DefaultRetentionMode
	}

	// Run defaults
	if cfg.Run.Timeout == 0 {
		cfg.Run.Timeout = DefaultRunTimeout
	}
	cfg.Run.Output = strings.ToLower(strings.TrimSpace(cfg.Run.Output))
	if cfg.Run.Output == "" {
		cfg.Run.Output = DefaultOutput
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Job == "" {
		cfg.Telemetry.Metrics.Job = DefaultMetricsJob
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}
