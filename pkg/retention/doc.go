// Package retention decides which hosted deployments to keep and applies
// those decisions against the hosting provider.
//
// # Pipeline
//
// A run has three forward-only stages:
//
//  1. A SnapshotLoader fetches live branches and every deployment.
//  2. Classify turns the snapshot and a Policy into one Decision per
//     in-scope deployment. It performs no I/O and is deterministic.
//  3. An Executor applies the decisions in order, deleting through a
//     Deleter unless the policy simulates, and returns a Report.
//
// The Reconciler wires the three stages together:
//
//	rec, err := retention.NewReconciler(loader, client, retention.Policy{
//	    Mode:           retention.ModeAll,
//	    PreviewKeep:    1,
//	    ProductionKeep: 5,
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := rec.Run(ctx)
//	if err != nil {
//	    return err // snapshot could not be loaded, nothing was deleted
//	}
//	if err := result.Report.Err(); err != nil {
//	    log.Printf("some deletions failed: %v", err)
//	}
//
// # Classification
//
// Preview deployments are checked in two passes. The orphan pass deletes
// every preview whose branch no longer exists (BRANCH_DELETED). The
// recency pass groups the rest by branch and keeps the PreviewKeep most
// recent of each group; older ones are deleted (RETENTION_LIMIT_EXCEEDED).
// Previews without a branch cannot be attributed to a group and are kept
// with reason NO_BRANCH.
//
// Production deployments form one project-wide group that keeps the
// ProductionKeep most recent.
//
// Sorting is stable, so deployments created at the same instant keep the
// order the provider listed them in.
//
// # Failure isolation
//
// A failed deletion is recorded as DELETE_FAILED and the executor moves on
// to the next decision. Report.Err summarizes every failure at the end.
package retention
