package retention

import (
	"fmt"
	"strings"

	"sweepworks/pagesweep/pkg/deploy"
)

// InvalidModeError is returned for a mode other than preview, production or all.
type InvalidModeError struct {
	Value string
}

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid retention mode %q: must be one of preview, production, all", e.Value)
}

// DeleteError records the failure to delete a single deployment.
type DeleteError struct {
	ID          string
	Environment deploy.Environment
	Cause       error
}

// Error implements the error interface.
func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s deployment %s: %v", e.Environment, e.ID, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *DeleteError) Unwrap() error {
	return e.Cause
}

// PartialFailureError is reported when a run completed but one or more
// deletions failed.
type PartialFailureError struct {
	Failures []Outcome
	Total    int
}

// Error implements the error interface.
func (e *PartialFailureError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d deletions failed", len(e.Failures), e.Total)
	for _, f := range e.Failures {
		fmt.Fprintf(&sb, "\n  - %s (%s): %v", f.Decision.ID(), f.Decision.Environment(), f.Err)
	}
	return sb.String()
}

// Unwrap returns the individual deletion errors.
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}
