package retention

import "sweepworks/pagesweep/pkg/deploy"

// Action is what a Decision asks the executor to do.
type Action string

const (
	ActionKeep   Action = "KEEP"
	ActionDelete Action = "DELETE"
)

// Reason explains why a Decision was made.
type Reason string

const (
	// ReasonBranchDeleted marks a preview whose source branch no longer exists.
	ReasonBranchDeleted Reason = "BRANCH_DELETED"
	// ReasonRetentionLimitExceeded marks a deployment older than the keep count allows.
	ReasonRetentionLimitExceeded Reason = "RETENTION_LIMIT_EXCEEDED"
	// ReasonWithinRetention marks a deployment among the most recent of its group.
	ReasonWithinRetention Reason = "WITHIN_RETENTION"
	// ReasonNoBranch marks a preview with no branch reference. It is kept and
	// does not count toward any group. JSON reports, the Markdown summary and
	// the decisions_total metric carry it as NO_BRANCH.
	ReasonNoBranch Reason = "NO_BRANCH"
)

// Decision is the classification of one deployment. Decisions are derived
// per run and never persisted by this package.
type Decision struct {
	Deployment deploy.Deployment `json:"deployment"`
	Action     Action            `json:"action"`
	Reason     Reason            `json:"reason"`
}

// ID returns the deployment identifier.
func (d Decision) ID() string {
	return d.Deployment.ID
}

// Environment returns the deployment environment.
func (d Decision) Environment() deploy.Environment {
	return d.Deployment.Environment
}

// Branch returns the deployment's source branch, if any.
func (d Decision) Branch() (string, bool) {
	return d.Deployment.Branch()
}

func keep(d deploy.Deployment, reason Reason) Decision {
	return Decision{Deployment: d, Action: ActionKeep, Reason: reason}
}

func remove(d deploy.Deployment, reason Reason) Decision {
	return Decision{Deployment: d, Action: ActionDelete, Reason: reason}
}
