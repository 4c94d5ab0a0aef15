package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sweepworks/pagesweep/pkg/config"
)

var validateFlags struct {
	show bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration",
	Long: `Load the configuration from the file, .env files and environment, and
report every problem found. No network access is made.

Examples:
  # Check the default pagesweep.yaml
  pagesweep validate

  # Check a file and print the effective config with secrets masked
  pagesweep validate --config ci.yaml --show`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.show, "show", false, "print the effective configuration with secrets masked")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if validateFlags.show {
		data, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
	}
	fmt.Fprintln(out, "✓ Configuration valid")
	return nil
}
