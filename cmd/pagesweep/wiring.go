package main

import (
	"errors"
	"fmt"
	"log/slog"

	"sweepworks/pagesweep/pkg/cli"
	"sweepworks/pagesweep/pkg/config"
	"sweepworks/pagesweep/pkg/providers/cloudflare"
	"sweepworks/pagesweep/pkg/providers/github"
	"sweepworks/pagesweep/pkg/providers/gitremote"
	"sweepworks/pagesweep/pkg/retention"
	"sweepworks/pagesweep/pkg/snapshot"
)

// loadConfig loads the config file with environment overrides and applies
// the global flags. It does not validate.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var validationErr config.ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		return nil, cli.NewConfigError("file", err.Error())
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	return cfg, nil
}

// policyFromConfig converts the retention section into a policy.
func policyFromConfig(cfg *config.Config) (retention.Policy, error) {
	mode, err := retention.ParseMode(cfg.Retention.Mode)
	if err != nil {
		return retention.Policy{}, cli.NewConfigError("retention.mode", err.Error())
	}
	p := retention.Policy{
		Mode:           mode,
		PreviewKeep:    cfg.Retention.PreviewKeep,
		ProductionKeep: cfg.Retention.ProductionKeep,
		Simulate:       cfg.Retention.DryRun,
	}
	if err := p.Validate(); err != nil {
		return retention.Policy{}, cli.NewConfigError("retention", err.Error())
	}
	return p, nil
}

func newCloudflareClient(cfg *config.Config) *cloudflare.Client {
	return cloudflare.NewClient(cloudflare.Config{
		BaseURL:           cfg.Cloudflare.BaseURL,
		AccountID:         cfg.Cloudflare.AccountID,
		ProjectName:       cfg.Cloudflare.ProjectName,
		APIToken:          cfg.Cloudflare.APIToken,
		Timeout:           cfg.Cloudflare.Timeout,
		UserAgent:         "pagesweep/" + Version,
		RequestsPerSecond: cfg.Cloudflare.RequestsPerSecond,
		Burst:             cfg.Cloudflare.Burst,
		ForceDelete:       cfg.Cloudflare.ForceDelete,
	})
}

// newBranchRegistry returns the branch source selected by branches.source.
func newBranchRegistry(cfg *config.Config) (snapshot.BranchRegistry, error) {
	switch cfg.Branches.Source {
	case "git":
		git := cfg.Branches.Git
		lister, err := gitremote.NewLister(git.URL, gitremote.AuthConfig{
			Type:             git.Auth.Type,
			Token:            git.Auth.Token,
			SSHKeyPath:       git.Auth.SSHKeyPath,
			SSHKeyPassphrase: git.Auth.SSHKeyPassphrase,
		})
		if err != nil {
			return nil, cli.NewConfigError("branches.git", err.Error())
		}
		return lister, nil
	case "github":
		gh := cfg.Branches.GitHub
		owner, repo, err := github.SplitRepository(gh.Repository)
		if err != nil {
			return nil, cli.NewConfigError("branches.github.repository", err.Error())
		}
		return github.NewClient(github.Config{
			BaseURL:   gh.BaseURL,
			Owner:     owner,
			Repo:      repo,
			Token:     gh.Token,
			Timeout:   gh.Timeout,
			UserAgent: "pagesweep/" + Version,
		}), nil
	default:
		return nil, cli.NewConfigError("branches.source", fmt.Sprintf("unsupported source %q", cfg.Branches.Source))
	}
}

// newLoader builds the snapshot loader. The Cloudflare client is returned
// as well since it is also the deleter.
func newLoader(cfg *config.Config, logger *slog.Logger) (*snapshot.Loader, *cloudflare.Client, error) {
	branches, err := newBranchRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}
	directory := newCloudflareClient(cfg)
	return snapshot.NewLoader(branches, directory, logger), directory, nil
}
