package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"sweepworks/pagesweep/pkg/cli"
	"sweepworks/pagesweep/pkg/config"
	"sweepworks/pagesweep/pkg/report"
	"sweepworks/pagesweep/pkg/retention"
	"sweepworks/pagesweep/pkg/telemetry/logging"
)

var planFlags struct {
	mode           string
	previewKeep    int
	productionKeep int
	output         string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Classify deployments without deleting",
	Long: `Load the snapshot and print the decision for every deployment in scope.
Nothing is deleted, whatever the dry-run setting.

Examples:
  # Show the plan for all environments
  pagesweep plan --mode all

  # Plan as JSON
  pagesweep plan --output json`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planFlags.mode, "mode", "", "environments to classify: preview, production, all")
	planCmd.Flags().IntVar(&planFlags.previewKeep, "preview-keep", 0, "deployments to keep per preview branch")
	planCmd.Flags().IntVar(&planFlags.productionKeep, "production-keep", 0, "production deployments to keep")
	planCmd.Flags().StringVarP(&planFlags.output, "output", "o", "", "output format: text, json")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Retention.Mode = planFlags.mode
	}
	if flags.Changed("preview-keep") {
		cfg.Retention.PreviewKeep = planFlags.previewKeep
	}
	if flags.Changed("production-keep") {
		cfg.Retention.ProductionKeep = planFlags.productionKeep
	}
	if flags.Changed("output") {
		cfg.Run.Output = planFlags.output
	}
	config.ApplyDefaults(cfg)

	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	return plan(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// plan classifies a fresh snapshot and writes the decisions to stdout.
func plan(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	format, err := cli.ParseOutputFormat(cfg.Run.Output)
	if err != nil {
		return err
	}
	policy, err := policyFromConfig(cfg)
	if err != nil {
		return err
	}
	policy.Simulate = true

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, stderr))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	loader, _, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}
	reconciler, err := retention.NewReconciler(loader, nil, policy, retention.WithLogger(logger))
	if err != nil {
		return cli.NewCommandError("plan", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Run.Timeout)
	defer cancel()

	_, decisions, err := reconciler.Plan(ctx)
	if err != nil {
		return cli.NewCommandError("plan", err)
	}

	p := report.NewPlan(policy.Mode, decisions)
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(stdout, p)
	}
	return p.WriteText(stdout)
}
