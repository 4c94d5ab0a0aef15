package deploy

import (
	"encoding/json"
	"strings"
	"time"
)

// Environment is the deployment class reported by the hosting provider.
type Environment string

const (
	// EnvironmentPreview marks deployments built from non-production branches.
	EnvironmentPreview Environment = "preview"
	// EnvironmentProduction marks deployments of the production branch.
	EnvironmentProduction Environment = "production"
)

// ParseEnvironment maps a provider value onto a known Environment.
// The second return value is false for anything else.
func ParseEnvironment(s string) (Environment, bool) {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case EnvironmentPreview:
		return EnvironmentPreview, true
	case EnvironmentProduction:
		return EnvironmentProduction, true
	default:
		return Environment(s), false
	}
}

// Deployment is a single hosted deployment as seen at snapshot time.
type Deployment struct {
	ID          string
	Environment Environment
	CreatedAt   time.Time

	branch string
	commit string
}

// Option sets optional trigger metadata on a Deployment.
type Option func(*Deployment)

// WithBranch records the branch that triggered the deployment.
// An empty name is treated as absent.
func WithBranch(name string) Option {
	return func(d *Deployment) {
		d.branch = name
	}
}

// WithCommit records the commit reference that triggered the deployment.
// An empty reference is treated as absent.
func WithCommit(ref string) Option {
	return func(d *Deployment) {
		d.commit = ref
	}
}

// New creates a Deployment.
func New(id string, env Environment, createdAt time.Time, opts ...Option) Deployment {
	d := Deployment{
		ID:          id,
		Environment: env,
		CreatedAt:   createdAt,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Branch returns the source branch and whether one was recorded.
func (d Deployment) Branch() (string, bool) {
	return d.branch, d.branch != ""
}

// Commit returns the commit reference and whether one was recorded.
func (d Deployment) Commit() (string, bool) {
	return d.commit, d.commit != ""
}

// ShortCommit returns the first seven characters of the commit reference,
// or an empty string when none was recorded.
func (d Deployment) ShortCommit() string {
	if len(d.commit) > 7 {
		return d.commit[:7]
	}
	return d.commit
}

type deploymentJSON struct {
	ID          string      `json:"id"`
	Environment Environment `json:"environment"`
	CreatedAt   time.Time   `json:"created_at"`
	Branch      *string     `json:"branch"`
	Commit      *string     `json:"commit"`
}

// MarshalJSON encodes absent branch and commit values as null.
func (d Deployment) MarshalJSON() ([]byte, error) {
	out := deploymentJSON{
		ID:          d.ID,
		Environment: d.Environment,
		CreatedAt:   d.CreatedAt,
	}
	if branch, ok := d.Branch(); ok {
		out.Branch = &branch
	}
	if commit, ok := d.Commit(); ok {
		out.Commit = &commit
	}
	return json.Marshal(out)
}
