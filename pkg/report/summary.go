package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"sweepworks/pagesweep/pkg/deploy"
	"sweepworks/pagesweep/pkg/retention"
)

// Final messages printed at the end of a run.
const (
	MessageDryRun  = "Dry run complete! No deployments were deleted."
	MessageCleanup = "Cleanup complete!"
)

// FinalMessage returns the closing line for a run.
func FinalMessage(simulate bool) string {
	if simulate {
		return MessageDryRun
	}
	return MessageCleanup
}

type envCounts struct {
	deleted     int
	wouldDelete int
	failed      int
	kept        int
}

func countByEnvironment(r retention.Report) map[deploy.Environment]*envCounts {
	counts := map[deploy.Environment]*envCounts{
		deploy.EnvironmentPreview:    {},
		deploy.EnvironmentProduction: {},
	}
	for _, o := range r.Outcomes {
		c, ok := counts[o.Decision.Environment()]
		if !ok {
			continue
		}
		switch o.Status {
		case retention.StatusDeleted:
			c.deleted++
		case retention.StatusWouldDelete:
			c.wouldDelete++
		case retention.StatusDeleteFailed:
			c.failed++
		case retention.StatusKept:
			c.kept++
		}
	}
	return counts
}

// Markdown renders the end-of-run summary.
func Markdown(res retention.Result) string {
	var sb strings.Builder
	p := res.Policy

	sb.WriteString("## Cloudflare Pages cleanup\n\n")
	fmt.Fprintf(&sb, "Mode `%s`, keeping %d preview deployment(s) per branch and %d production deployment(s).",
		p.Mode, p.PreviewKeep, p.ProductionKeep)
	if p.Simulate {
		sb.WriteString(" **Dry run**: nothing was deleted.")
	}
	sb.WriteString("\n\n")

	counts := countByEnvironment(res.Report)
	sb.WriteString("| Environment | Deleted | Would delete | Failed | Kept |\n")
	sb.WriteString("|---|---:|---:|---:|---:|\n")
	for _, env := range []deploy.Environment{deploy.EnvironmentPreview, deploy.EnvironmentProduction} {
		c := counts[env]
		fmt.Fprintf(&sb, "| %s | %d | %d | %d | %d |\n", env, c.deleted, c.wouldDelete, c.failed, c.kept)
	}
	sb.WriteString("\n")

	if len(res.Report.Failed) > 0 {
		sb.WriteString("### Failed deletions\n\n")
		sb.WriteString("| ID | Environment | Branch | Error |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, o := range res.Report.Failed {
			branch, _ := o.Decision.Branch()
			errText := ""
			if o.Err != nil {
				errText = o.Err.Error()
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n",
				o.Decision.ID(), o.Decision.Environment(), cell(branch), cell(errText))
		}
		sb.WriteString("\n")
	}

	if len(res.Report.Kept) > 0 {
		now := res.FinishedAt
		if now.IsZero() {
			now = time.Now()
		}
		sb.WriteString("### Kept deployments\n\n")
		sb.WriteString("| ID | Environment | Branch | Commit | Created | Age |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, o := range res.Report.Kept {
			d := o.Decision.Deployment
			branch, _ := d.Branch()
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %s | %s |\n",
				d.ID, d.Environment, cell(branch), d.ShortCommit(),
				d.CreatedAt.UTC().Format(TimeLayout), age(now, d.CreatedAt))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(FinalMessage(p.Simulate))
	sb.WriteString("\n")
	return sb.String()
}

// cell escapes a value for use inside a Markdown table.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// WriteSummary appends content to the file at path, creating it if needed.
// GitHub Actions renders this file on the job page.
func WriteSummary(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open summary file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write summary file: %w", err)
	}
	return f.Close()
}

// age is a coarse human duration for summary tables.
func age(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
