package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"sweepworks/pagesweep/pkg/deploy"
	"sweepworks/pagesweep/pkg/retention"
)

// TimeLayout is the layout of the created column, always in UTC.
const TimeLayout = "2006-01-02 15:04:05"

const (
	idWidth     = 36
	envWidth    = 10
	branchWidth = 20
	commitWidth = 7
)

// FormatRow renders one deployment as a fixed-width progress line.
func FormatRow(d deploy.Deployment, status string) string {
	branch, _ := d.Branch()
	return fmt.Sprintf("%s  %s  %s  %s  %s  %s",
		pad(d.ID, idWidth),
		pad(string(d.Environment), envWidth),
		pad(branch, branchWidth),
		pad(d.ShortCommit(), commitWidth),
		d.CreatedAt.UTC().Format(TimeLayout),
		status,
	)
}

// HeaderRow returns the column titles aligned with FormatRow.
func HeaderRow() string {
	return fmt.Sprintf("%s  %s  %s  %s  %s  %s",
		pad("ID", idWidth),
		pad("ENV", envWidth),
		pad("BRANCH", branchWidth),
		pad("COMMIT", commitWidth),
		pad("CREATED", len(TimeLayout)),
		"STATUS",
	)
}

// pad right-pads s with spaces to width. Longer values are left intact.
func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Progress writes a row for every outcome as it is produced. It implements
// retention.Observer.
type Progress struct {
	mu     sync.Mutex
	w      io.Writer
	header bool
}

// NewProgress creates a progress writer on w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Observe writes the row for o, preceded by the header on first use.
func (p *Progress) Observe(_ context.Context, o retention.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.header {
		fmt.Fprintln(p.w, HeaderRow())
		p.header = true
	}

	status := fmt.Sprintf("%s (%s)", o.Status, o.Decision.Reason)
	fmt.Fprintln(p.w, FormatRow(o.Decision.Deployment, status))
}

var _ retention.Observer = (*Progress)(nil)
