package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with credentials filled in.
// The resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	cfg := Default()
	cfg.Cloudflare.APIToken = "cf-test-token"
	cfg.Cloudflare.AccountID = "acct"
	cfg.Cloudflare.ProjectName = "site"
	cfg.Branches.GitHub.Token = "gh-test-token"
	cfg.Branches.GitHub.Repository = "acme/site"
	return &ConfigBuilder{cfg: *cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithMode sets the retention mode.
func (b *ConfigBuilder) WithMode(mode string) *ConfigBuilder {
	b.cfg.Retention.Mode = mode
	return b
}

// WithKeeps sets both keep counts.
func (b *ConfigBuilder) WithKeeps(preview, production int) *ConfigBuilder {
	b.cfg.Retention.PreviewKeep = preview
	b.cfg.Retention.ProductionKeep = production
	return b
}

// WithGitSource switches the branch registry to a git remote.
func (b *ConfigBuilder) WithGitSource(url string, auth GitAuthConfig) *ConfigBuilder {
	b.cfg.Branches.Source = "git"
	b.cfg.Branches.Git = GitRemoteConfig{URL: url, Auth: auth}
	return b
}

// WithRunTimeout sets the run deadline.
func (b *ConfigBuilder) WithRunTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Run.Timeout = d
	return b
}

// WithMetrics enables metrics with the given sinks.
func (b *ConfigBuilder) WithMetrics(textfile, pushgateway string) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = true
	b.cfg.Telemetry.Metrics.TextfilePath = textfile
	b.cfg.Telemetry.Metrics.PushgatewayURL = pushgateway
	return b
}

// MinimalConfig returns a minimal valid configuration for testing.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
