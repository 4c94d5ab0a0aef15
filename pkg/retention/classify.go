package retention

import (
	"slices"

	"sweepworks/pagesweep/pkg/deploy"
)

// Classify decides, for every deployment in a class selected by
// policy.Mode, whether to keep or delete it.
//
// Decisions come out in a fixed order: orphaned previews in snapshot order,
// then each branch group in order of first appearance (newest first), then
// previews without a branch, then production deployments (newest first).
// Deployments of unselected classes get no decision at all. A deployment id
// repeated in the snapshot is classified once, from its first occurrence.
//
// Classify does not read policy.Simulate and never performs I/O.
func Classify(snap deploy.Snapshot, policy Policy) []Decision {
	snap.Deployments = uniqueDeployments(snap.Deployments)
	decisions := make([]Decision, 0, len(snap.Deployments))

	if policy.Mode.Includes(deploy.EnvironmentPreview) {
		decisions = append(decisions, classifyPreviews(snap, policy.PreviewKeep)...)
	}
	if policy.Mode.Includes(deploy.EnvironmentProduction) {
		decisions = append(decisions, classifyProduction(snap.Deployments, policy.ProductionKeep)...)
	}

	return decisions
}

// uniqueDeployments drops every repeat of an id already seen. The input
// slice is not modified.
func uniqueDeployments(deployments []deploy.Deployment) []deploy.Deployment {
	seen := make(map[string]struct{}, len(deployments))
	out := make([]deploy.Deployment, 0, len(deployments))
	for _, d := range deployments {
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}

// classifyPreviews runs the orphan pass and then the recency pass over the
// previews the orphan pass left behind.
func classifyPreviews(snap deploy.Snapshot, keepCount int) []Decision {
	var (
		decisions  []Decision
		remaining  []deploy.Deployment
		unassigned []Decision
	)

	// Orphan pass
	for _, d := range snap.Deployments {
		if d.Environment != deploy.EnvironmentPreview {
			continue
		}
		if branch, ok := d.Branch(); ok && !snap.Branches.Has(branch) {
			decisions = append(decisions, remove(d, ReasonBranchDeleted))
			continue
		}
		remaining = append(remaining, d)
	}

	// Recency pass
	var order []string
	groups := make(map[string][]deploy.Deployment)
	for _, d := range remaining {
		branch, ok := d.Branch()
		if !ok {
			unassigned = append(unassigned, keep(d, ReasonNoBranch))
			continue
		}
		if _, seen := groups[branch]; !seen {
			order = append(order, branch)
		}
		groups[branch] = append(groups[branch], d)
	}
	for _, branch := range order {
		decisions = append(decisions, rankGroup(groups[branch], keepCount)...)
	}

	return append(decisions, unassigned...)
}

// classifyProduction ranks every production deployment as one group.
func classifyProduction(deployments []deploy.Deployment, keepCount int) []Decision {
	var group []deploy.Deployment
	for _, d := range deployments {
		if d.Environment == deploy.EnvironmentProduction {
			group = append(group, d)
		}
	}
	return rankGroup(group, keepCount)
}

// rankGroup keeps the keepCount most recent deployments of a retention
// group and deletes the rest. The input slice is not modified.
func rankGroup(group []deploy.Deployment, keepCount int) []Decision {
	if len(group) == 0 {
		return nil
	}

	sorted := slices.Clone(group)
	slices.SortStableFunc(sorted, func(a, b deploy.Deployment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	decisions := make([]Decision, 0, len(sorted))
	for i, d := range sorted {
		if i < keepCount {
			decisions = append(decisions, keep(d, ReasonWithinRetention))
		} else {
			decisions = append(decisions, remove(d, ReasonRetentionLimitExceeded))
		}
	}
	return decisions
}
