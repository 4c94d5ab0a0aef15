// Package report renders the results of a run: one progress row per
// processed deployment, a Markdown summary for the GitHub Actions job page,
// and a JSON document for machine consumers.
package report
