// Package snapshot assembles the point-in-time view a retention run works on.
//
// A Loader queries a BranchRegistry and a DeploymentDirectory concurrently
// and returns a deploy.Snapshot only when both succeed. Any failure is
// wrapped in a *FetchError naming the source, and the run must stop before
// anything is deleted.
package snapshot
