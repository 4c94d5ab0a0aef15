package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"sweepworks/pagesweep/pkg/cli"
	"sweepworks/pagesweep/pkg/config"
	"sweepworks/pagesweep/pkg/history"
	"sweepworks/pagesweep/pkg/report"
	"sweepworks/pagesweep/pkg/retention"
	"sweepworks/pagesweep/pkg/telemetry"
)

// postRunTimeout bounds the metrics, history and tracing flushes after
// the run context may already have expired.
const postRunTimeout = 30 * time.Second

var runFlags struct {
	mode           string
	previewKeep    int
	productionKeep int
	dryRun         bool
	timeout        time.Duration
	output         string
	failOnError    bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Delete stale deployments",
	Long: `Load the project's deployments and the repository's branches, classify
every deployment and delete the ones outside the retention policy.

A failed deletion does not stop the run. The command exits non-zero for
failed deletions only with --fail-on-error.

Examples:
  # Clean up previews with the config file defaults
  pagesweep run

  # Keep three deployments per preview branch and two in production
  pagesweep run --mode all --preview-keep 3 --production-keep 2

  # Report what would be deleted
  pagesweep run --dry-run

  # Machine-readable report
  pagesweep run --output json`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.mode, "mode", "", "environments to clean: preview, production, all")
	runCmd.Flags().IntVar(&runFlags.previewKeep, "preview-keep", 0, "deployments to keep per preview branch")
	runCmd.Flags().IntVar(&runFlags.productionKeep, "production-keep", 0, "production deployments to keep")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "report deletions without performing them")
	runCmd.Flags().DurationVar(&runFlags.timeout, "timeout", 0, "deadline for the whole run")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "", "output format: text, json")
	runCmd.Flags().BoolVar(&runFlags.failOnError, "fail-on-error", false, "exit non-zero when any deletion fails")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	return reconcile(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// applyRunFlags copies the flags the user set over the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Retention.Mode = runFlags.mode
	}
	if flags.Changed("preview-keep") {
		cfg.Retention.PreviewKeep = runFlags.previewKeep
	}
	if flags.Changed("production-keep") {
		cfg.Retention.ProductionKeep = runFlags.productionKeep
	}
	if flags.Changed("dry-run") {
		cfg.Retention.DryRun = runFlags.dryRun
	}
	if flags.Changed("timeout") {
		cfg.Run.Timeout = runFlags.timeout
	}
	if flags.Changed("output") {
		cfg.Run.Output = runFlags.output
	}
	if flags.Changed("fail-on-error") {
		cfg.Retention.FailOnError = runFlags.failOnError
	}
	config.ApplyDefaults(cfg)
}

// reconcile performs one run against a validated config. Progress rows
// and the report go to stdout, logs to stderr.
func reconcile(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	format, err := cli.ParseOutputFormat(cfg.Run.Output)
	if err != nil {
		return err
	}
	policy, err := policyFromConfig(cfg)
	if err != nil {
		return err
	}

	tel, err := telemetry.New(ctx, cfg.Telemetry, Version, stderr)
	if err != nil {
		return cli.NewConfigError("telemetry", err.Error())
	}
	logger := tel.Logger().With("component", "cmd.run")
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), postRunTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	loader, directory, err := newLoader(cfg, tel.Logger())
	if err != nil {
		return err
	}

	opts := tel.Options()
	if format == cli.FormatText {
		opts = append(opts, retention.WithObserver(report.NewProgress(stdout)))
	}

	var deleter retention.Deleter
	if !policy.Simulate {
		deleter = directory
	}
	reconciler, err := retention.NewReconciler(loader, deleter, policy, opts...)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	logger.Info("starting run",
		"project", cfg.Cloudflare.ProjectName,
		"branch_source", cfg.Branches.Source,
		"mode", policy.Mode,
		"preview_keep", policy.PreviewKeep,
		"production_keep", policy.ProductionKeep,
		"dry_run", policy.Simulate,
	)

	runCtx, cancel := context.WithTimeout(ctx, cfg.Run.Timeout)
	res, runErr := reconciler.Run(runCtx)
	cancel()

	postCtx, postCancel := context.WithTimeout(context.WithoutCancel(ctx), postRunTimeout)
	defer postCancel()

	if err := tel.Finish(postCtx, res, cfg.Cloudflare.ProjectName); err != nil {
		logger.Warn("metrics export failed", "error", err)
	}
	if cfg.History.Enabled {
		if err := recordHistory(postCtx, cfg, res, runErr); err != nil {
			logger.Warn("run history not recorded", "error", err)
		}
	}

	if runErr != nil {
		return cli.NewCommandError("run", runErr)
	}

	if err := writeRunOutput(cfg, format, res, stdout); err != nil {
		return cli.NewCommandError("run", err)
	}

	if cfg.Retention.FailOnError {
		if err := res.Report.Err(); err != nil {
			return cli.NewCommandError("run", err)
		}
	}
	return nil
}

// writeRunOutput writes the summary and the final report. The Markdown
// summary goes to the summary file when one is configured, else to stdout
// in text mode.
func writeRunOutput(cfg *config.Config, format cli.OutputFormat, res retention.Result, stdout io.Writer) error {
	doc := report.NewDocument(res)

	if cfg.Run.SummaryPath != "" {
		if err := report.WriteSummary(cfg.Run.SummaryPath, report.Markdown(res)); err != nil {
			return err
		}
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(stdout, doc)
	}

	if cfg.Run.SummaryPath == "" {
		_, err := fmt.Fprint(stdout, "\n"+report.Markdown(res))
		return err
	}
	return cli.NewFormatter(format).FormatTo(stdout, doc)
}

func recordHistory(ctx context.Context, cfg *config.Config, res retention.Result, runErr error) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	_, recErr := store.RecordRun(ctx, cfg.Cloudflare.ProjectName, res, runErr)
	return errors.Join(recErr, store.Close())
}
