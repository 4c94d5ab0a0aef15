package deploy

import (
	"sort"
	"time"
)

// BranchSet is the set of branch names alive at snapshot time.
// The zero value is an empty set.
type BranchSet struct {
	names map[string]struct{}
}

// NewBranchSet builds a set from the given names. Duplicates are ignored.
func NewBranchSet(names ...string) BranchSet {
	set := BranchSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		set.names[name] = struct{}{}
	}
	return set
}

// Has reports whether the branch exists.
func (s BranchSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of branches in the set.
func (s BranchSet) Len() int {
	return len(s.names)
}

// Names returns the branch names in lexical order.
func (s BranchSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Snapshot pairs the live branches with every deployment known at TakenAt.
// Deployments keep the order the provider returned them in; that order
// breaks ties between deployments created at the same instant.
type Snapshot struct {
	Branches    BranchSet
	Deployments []Deployment
	TakenAt     time.Time
}

// Count returns the number of deployments in the given environment.
func (s Snapshot) Count(env Environment) int {
	n := 0
	for _, d := range s.Deployments {
		if d.Environment == env {
			n++
		}
	}
	return n
}
