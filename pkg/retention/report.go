package retention

import (
	"encoding/json"

	"sweepworks/pagesweep/pkg/deploy"
)

// Status is the result of applying one Decision.
type Status string

const (
	// StatusKept means the deployment was left in place.
	StatusKept Status = "KEPT"
	// StatusDeleted means the deployment was deleted.
	StatusDeleted Status = "DELETED"
	// StatusDeleteFailed means deletion was attempted and failed.
	StatusDeleteFailed Status = "DELETE_FAILED"
	// StatusWouldDelete means the deployment would have been deleted had the
	// run not been simulated.
	StatusWouldDelete Status = "WOULD_DELETE"
)

// Outcome is the result of executing one Decision.
type Outcome struct {
	Decision Decision
	Status   Status
	// Err is set only for StatusDeleteFailed.
	Err error
}

type outcomeJSON struct {
	Deployment deploy.Deployment `json:"deployment"`
	Action     Action            `json:"action"`
	Reason     Reason            `json:"reason"`
	Status     Status            `json:"status"`
	Error      string            `json:"error,omitempty"`
}

// MarshalJSON flattens the decision and renders the error as a string.
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{
		Deployment: o.Decision.Deployment,
		Action:     o.Decision.Action,
		Reason:     o.Decision.Reason,
		Status:     o.Status,
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

// Report accumulates the outcomes of a run. It is built by the Executor and
// handed back by value; nothing else writes to it.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`

	DeletedPreview    int `json:"deleted_preview"`
	DeletedProduction int `json:"deleted_production"`

	WouldDeletePreview    int `json:"would_delete_preview"`
	WouldDeleteProduction int `json:"would_delete_production"`

	Kept   []Outcome `json:"kept"`
	Failed []Outcome `json:"failed"`
}

// record returns the report with o folded in.
func (r Report) record(o Outcome) Report {
	r.Outcomes = append(r.Outcomes, o)

	env := o.Decision.Environment()
	switch o.Status {
	case StatusKept:
		r.Kept = append(r.Kept, o)
	case StatusDeleted:
		if env == deploy.EnvironmentProduction {
			r.DeletedProduction++
		} else {
			r.DeletedPreview++
		}
	case StatusWouldDelete:
		if env == deploy.EnvironmentProduction {
			r.WouldDeleteProduction++
		} else {
			r.WouldDeletePreview++
		}
	case StatusDeleteFailed:
		r.Failed = append(r.Failed, o)
	}

	return r
}

// Deleted returns the number of deployments actually deleted.
func (r Report) Deleted() int {
	return r.DeletedPreview + r.DeletedProduction
}

// WouldDelete returns the number of deletions a simulated run skipped.
func (r Report) WouldDelete() int {
	return r.WouldDeletePreview + r.WouldDeleteProduction
}

// Err returns a *PartialFailureError when any deletion failed, nil otherwise.
func (r Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return &PartialFailureError{
		Failures: r.Failed,
		Total:    r.Deleted() + len(r.Failed),
	}
}
