// pagesweep removes stale Cloudflare Pages deployments.
//
// Preview deployments whose branch no longer exists on the repository are
// deleted, and each preview branch and the production environment keep
// only their most recent deployments.
//
// Usage:
//
//	# Delete stale preview deployments
//	pagesweep run
//
//	# Show what would be deleted
//	pagesweep run --dry-run --mode all
//
//	# Classify without deleting, as JSON
//	pagesweep plan --output json
//
//	# Check configuration without network access
//	pagesweep validate
//
//	# List recorded runs
//	pagesweep history --limit 10
package main

func main() {
	Execute()
}
