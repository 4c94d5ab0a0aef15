package config

import "time"

// Config is the root configuration structure for pagesweep.
type Config struct {
	// Cloudflare identifies the Pages project whose deployments are managed.
	Cloudflare CloudflareConfig `yaml:"cloudflare"`

	// Branches selects where the list of live branches comes from.
	Branches BranchesConfig `yaml:"branches"`

	// Retention holds the cleanup policy.
	Retention RetentionConfig `yaml:"retention"`

	// Run contains per-invocation settings such as the deadline and output.
	Run RunConfig `yaml:"run"`

	// History controls the local record of past runs.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging, metrics, and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CloudflareConfig contains Cloudflare Pages API settings.
type CloudflareConfig struct {
	// APIToken is a token with Pages edit permission. Required.
	APIToken string `yaml:"api_token"`

	// AccountID is the Cloudflare account identifier. Required.
	AccountID string `yaml:"account_id"`

	// ProjectName is the Pages project name. Required.
	ProjectName string `yaml:"project_name"`

	// BaseURL overrides the API root.
	// Default: "https://api.cloudflare.com/client/v4"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each API request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerSecond limits the request rate. Zero disables the limit.
	// Default: 4
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the number of requests allowed above the steady rate.
	// Default: 1
	Burst int `yaml:"burst"`

	// ForceDelete also removes deployments that still have aliases.
	// Default: false
	ForceDelete bool `yaml:"force_delete"`
}

// BranchesConfig selects the branch registry.
type BranchesConfig struct {
	// Source is "github" (REST API) or "git" (ref advertisement of a remote).
	// Default: "github"
	Source string `yaml:"source"`

	// GitHub configures the REST API source.
	GitHub GitHubConfig `yaml:"github"`

	// Git configures the git remote source.
	Git GitRemoteConfig `yaml:"git"`
}

// GitHubConfig contains GitHub REST API settings.
type GitHubConfig struct {
	// Token is a token with read access to the repository.
	// Falls back to GITHUB_TOKEN.
	Token string `yaml:"token"`

	// Repository is "owner/repo". Falls back to GITHUB_REPOSITORY.
	Repository string `yaml:"repository"`

	// BaseURL overrides the API root, for GitHub Enterprise.
	// Default: "https://api.github.com"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each API request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// GitRemoteConfig contains settings for listing branches from a git remote.
type GitRemoteConfig struct {
	// URL is the remote URL (https or ssh).
	URL string `yaml:"url"`

	// Auth configures authentication against the remote.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig contains git authentication settings.
type GitAuthConfig struct {
	// Type is "token", "ssh", or "none".
	// Default: "none"
	Type string `yaml:"type"`

	// Token is used with type "token".
	Token string `yaml:"token"`

	// SSHKeyPath is the private key used with type "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase decrypts the key, if needed.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// RetentionConfig contains the cleanup policy.
type RetentionConfig struct {
	// Mode is "preview", "production", or "all". Trimmed and lower-cased.
	// Default: "preview"
	Mode string `yaml:"mode"`

	// PreviewKeep is how many previews to keep per live branch.
	// Default: 1
	PreviewKeep int `yaml:"preview_keep"`

	// ProductionKeep is how many production deployments to keep.
	// Default: 1
	ProductionKeep int `yaml:"production_keep"`

	// DryRun reports what would be deleted without deleting anything.
	// Default: false
	DryRun bool `yaml:"dry_run"`

	// FailOnError makes the command exit non-zero when any deletion failed.
	// Default: false
	FailOnError bool `yaml:"fail_on_error"`
}

// RunConfig contains per-invocation settings.
type RunConfig struct {
	// Timeout bounds the whole run, fetches and deletions included.
	// Default: 10m
	Timeout time.Duration `yaml:"timeout"`

	// Output is the report format written to stdout: "text" or "json".
	// Default: "text"
	Output string `yaml:"output"`

	// SummaryPath receives the Markdown summary. Falls back to
	// GITHUB_STEP_SUMMARY. Empty means the summary is logged instead.
	SummaryPath string `yaml:"summary_path"`
}

// HistoryConfig controls the SQLite run history.
type HistoryConfig struct {
	// Enabled turns recording on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the database file.
	// Default: ".pagesweep/history.db"
	Path string `yaml:"path"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line in every record.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains end-of-run metrics export settings.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// TextfilePath is written in the node exporter textfile format.
	TextfilePath string `yaml:"textfile_path"`

	// PushgatewayURL receives the metrics via the Pushgateway API.
	PushgatewayURL string `yaml:"pushgateway_url"`

	// Job is the Pushgateway job label.
	// Default: "pagesweep"
	Job string `yaml:"job"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled turns span export on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address ("host:port").
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is reported as service.name.
	// Default: "pagesweep"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of runs traced, between 0 and 1.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`
}

// Redacted returns a copy with every secret masked, safe to print.
func (c Config) Redacted() Config {
	c.Cloudflare.APIToken = mask(c.Cloudflare.APIToken)
	c.Branches.GitHub.Token = mask(c.Branches.GitHub.Token)
	c.Branches.Git.Auth.Token = mask(c.Branches.Git.Auth.Token)
	c.Branches.Git.Auth.SSHKeyPassphrase = mask(c.Branches.Git.Auth.SSHKeyPassphrase)
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
