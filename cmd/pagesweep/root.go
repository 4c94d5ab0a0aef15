package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sweepworks/pagesweep/pkg/cli"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pagesweep",
	Short: "pagesweep - Cloudflare Pages deployment retention",
	Long: `pagesweep reconciles the deployments of one Cloudflare Pages project
against the live branches of its repository.

  - Preview deployments of deleted branches are removed
  - Each preview branch keeps its most recent deployments
  - Production keeps its most recent deployments

Credentials are read from the config file, .env files, environment
variables or GitHub Actions inputs.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the status for its error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := cli.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default \"pagesweep.yaml\" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}
