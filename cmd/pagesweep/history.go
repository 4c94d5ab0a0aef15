package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sweepworks/pagesweep/pkg/cli"
	"sweepworks/pagesweep/pkg/config"
	"sweepworks/pagesweep/pkg/history"
	"sweepworks/pagesweep/pkg/report"
)

var historyFlags struct {
	limit  int
	output string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `List the runs recorded in the history database, newest first.
Runs are recorded when history.enabled is set.

Examples:
  # Last 20 runs
  pagesweep history

  # Everything, as JSON
  pagesweep history --limit 0 --output json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "number of runs to list (0 for all)")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format: text, json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := cli.ParseOutputFormat(historyFlags.output)
	if err != nil {
		return err
	}
	return listHistory(cmd.Context(), cfg, historyFlags.limit, format, cmd.OutOrStdout())
}

func listHistory(ctx context.Context, cfg *config.Config, limit int, format cli.OutputFormat, w io.Writer) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if format == cli.FormatJSON {
		if runs == nil {
			runs = []history.Run{}
		}
		return cli.NewFormatter(format).FormatTo(w, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tPROJECT\tMODE\tDRY RUN\tDELETED\tWOULD DELETE\tFAILED\tKEPT\tERROR")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%d\t%d\t%d\t%d\t%s\n",
			r.ID,
			r.StartedAt.UTC().Format(report.TimeLayout),
			r.Project,
			r.Mode,
			r.DryRun,
			r.DeletedPreview+r.DeletedProduction,
			r.WouldDeletePreview+r.WouldDeleteProduction,
			r.Failed,
			r.Kept,
			r.Error,
		)
	}
	return tw.Flush()
}
