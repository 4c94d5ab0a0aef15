// Package config provides configuration management for pagesweep.
//
// This package handles loading and validating configuration from an
// optional YAML file, .env files, and environment variables.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfigWithEnvOverrides("pagesweep.yaml")
//	if err != nil {
//	    return err
//	}
//	// apply command-line flags here
//	if err := config.Validate(cfg); err != nil {
//	    return err
//	}
//
// An empty path reads pagesweep.yaml from the working directory when it
// exists and otherwise starts from the defaults alone.
//
// # Environment Variables
//
// Three families of variables are recognized, later ones taking precedence:
//
//   - GitHub Actions inputs, exactly as the runner exports them:
//     INPUT_CLOUDFLARE-API-TOKEN, INPUT_CLOUDFLARE-ACCOUNT-ID,
//     INPUT_CLOUDFLARE-PROJECT-NAME, INPUT_GITHUB-TOKEN, INPUT_CLEANUP-TYPES,
//     INPUT_PREVIEW-KEEP, INPUT_PRODUCTION-KEEP, INPUT_DRY-RUN
//   - GITHUB_TOKEN, GITHUB_REPOSITORY and GITHUB_STEP_SUMMARY, used only
//     when the corresponding setting is still empty
//   - PAGESWEEP_SECTION_FIELD, for example PAGESWEEP_RETENTION_MODE
//
// Variables from .env.local and .env are loaded first and never replace a
// variable that is already set.
//
// # Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variables
//  4. Command-line flags (applied by the caller)
//  5. Validation (collects every error before failing)
//
// # Example
//
//	cloudflare:
//	  account_id: 0123456789abcdef
//	  project_name: docs
//	branches:
//	  source: github
//	  github:
//	    repository: acme/docs
//	retention:
//	  mode: all
//	  preview_keep: 2
//	  production_keep: 5
//	history:
//	  enabled: true
//
// Tokens are best supplied through the environment.
package config
