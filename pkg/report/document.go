package report

import (
	"fmt"
	"io"
	"time"

	"sweepworks/pagesweep/pkg/retention"
)

// Document is the JSON form of a completed run.
type Document struct {
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	DurationMillis int64          `json:"duration_ms"`
	Mode           retention.Mode `json:"mode"`
	PreviewKeep    int            `json:"preview_keep"`
	ProductionKeep int            `json:"production_keep"`
	DryRun         bool           `json:"dry_run"`

	Branches    int `json:"branches"`
	Deployments int `json:"deployments"`

	DeletedPreview        int `json:"deleted_preview"`
	DeletedProduction     int `json:"deleted_production"`
	WouldDeletePreview    int `json:"would_delete_preview"`
	WouldDeleteProduction int `json:"would_delete_production"`
	Kept                  int `json:"kept"`
	Failed                int `json:"failed"`

	Outcomes []retention.Outcome `json:"outcomes"`
	Message  string              `json:"message"`
}

// NewDocument flattens a run result.
func NewDocument(res retention.Result) Document {
	r := res.Report
	outcomes := r.Outcomes
	if outcomes == nil {
		outcomes = []retention.Outcome{}
	}
	return Document{
		StartedAt:             res.StartedAt,
		FinishedAt:            res.FinishedAt,
		DurationMillis:        res.Duration().Milliseconds(),
		Mode:                  res.Policy.Mode,
		PreviewKeep:           res.Policy.PreviewKeep,
		ProductionKeep:        res.Policy.ProductionKeep,
		DryRun:                res.Policy.Simulate,
		Branches:              res.Snapshot.Branches.Len(),
		Deployments:           len(res.Snapshot.Deployments),
		DeletedPreview:        r.DeletedPreview,
		DeletedProduction:     r.DeletedProduction,
		WouldDeletePreview:    r.WouldDeletePreview,
		WouldDeleteProduction: r.WouldDeleteProduction,
		Kept:                  len(r.Kept),
		Failed:                len(r.Failed),
		Outcomes:              outcomes,
		Message:               FinalMessage(res.Policy.Simulate),
	}
}

// String renders the one-paragraph text form used by --output text.
func (d Document) String() string {
	if d.DryRun {
		return fmt.Sprintf("Would delete %d preview and %d production deployment(s); kept %d.\n%s",
			d.WouldDeletePreview, d.WouldDeleteProduction, d.Kept, d.Message)
	}
	return fmt.Sprintf("Deleted %d preview and %d production deployment(s); kept %d; %d failed.\n%s",
		d.DeletedPreview, d.DeletedProduction, d.Kept, d.Failed, d.Message)
}

// Plan is the classification of a snapshot without execution.
type Plan struct {
	Mode      retention.Mode       `json:"mode"`
	Decisions []retention.Decision `json:"decisions"`
	Deletes   int                  `json:"deletes"`
	Keeps     int                  `json:"keeps"`
}

// NewPlan summarizes decisions.
func NewPlan(mode retention.Mode, decisions []retention.Decision) Plan {
	p := Plan{Mode: mode, Decisions: decisions}
	if p.Decisions == nil {
		p.Decisions = []retention.Decision{}
	}
	for _, d := range decisions {
		if d.Action == retention.ActionDelete {
			p.Deletes++
		} else {
			p.Keeps++
		}
	}
	return p
}

// WriteText writes one row per decision followed by the totals.
func (p Plan) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, HeaderRow()); err != nil {
		return err
	}
	for _, d := range p.Decisions {
		status := fmt.Sprintf("%s (%s)", d.Action, d.Reason)
		if _, err := fmt.Fprintln(w, FormatRow(d.Deployment, status)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d to delete, %d to keep (mode %s)\n", p.Deletes, p.Keeps, p.Mode)
	return err
}
