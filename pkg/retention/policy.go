package retention

import (
	"fmt"
	"strings"

	"sweepworks/pagesweep/pkg/deploy"
)

// Mode selects which deployment classes a run evaluates.
type Mode string

const (
	// ModePreview evaluates preview deployments only.
	ModePreview Mode = "preview"
	// ModeProduction evaluates production deployments only.
	ModeProduction Mode = "production"
	// ModeAll evaluates both classes.
	ModeAll Mode = "all"
)

// ParseMode accepts "preview", "production" or "all", ignoring case and
// surrounding whitespace.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePreview, ModeProduction, ModeAll:
		return m, nil
	default:
		return "", &InvalidModeError{Value: s}
	}
}

// Includes reports whether deployments of env are evaluated under m.
func (m Mode) Includes(env deploy.Environment) bool {
	switch env {
	case deploy.EnvironmentPreview:
		return m == ModePreview || m == ModeAll
	case deploy.EnvironmentProduction:
		return m == ModeProduction || m == ModeAll
	default:
		return false
	}
}

// Policy is the retention configuration for one run.
type Policy struct {
	// Mode selects the deployment classes to evaluate.
	Mode Mode

	// PreviewKeep is how many of the most recent previews to keep per branch.
	// Zero deletes every preview of a live branch.
	PreviewKeep int

	// ProductionKeep is how many of the most recent production deployments
	// to keep across the project.
	ProductionKeep int

	// Simulate computes and reports decisions without deleting anything.
	Simulate bool
}

// DefaultPolicy keeps one preview per branch and one production deployment.
func DefaultPolicy() Policy {
	return Policy{
		Mode:           ModePreview,
		PreviewKeep:    1,
		ProductionKeep: 1,
	}
}

// Validate checks the mode and keep counts.
func (p Policy) Validate() error {
	if _, err := ParseMode(string(p.Mode)); err != nil {
		return err
	}
	if p.PreviewKeep < 0 {
		return fmt.Errorf("preview keep must be non-negative, got %d", p.PreviewKeep)
	}
	if p.ProductionKeep < 0 {
		return fmt.Errorf("production keep must be non-negative, got %d", p.ProductionKeep)
	}
	return nil
}
