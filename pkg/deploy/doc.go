// Package deploy defines the immutable values a reconciliation run works on:
// hosted deployments, the set of live branches, and the snapshot that pairs
// them.
//
// Deployments are fetched once per run and never mutated. Optional trigger
// metadata (source branch, commit) is held behind accessors that report
// whether the value is present, so callers never have to guess whether an
// empty string means "unknown" or "empty":
//
//	d := deploy.New("a1b2", deploy.EnvironmentPreview, created,
//	    deploy.WithBranch("feature-1"),
//	    deploy.WithCommit("9f8e7d6"),
//	)
//	if branch, ok := d.Branch(); ok {
//	    fmt.Println(branch)
//	}
package deploy
