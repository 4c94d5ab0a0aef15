// Package github lists the branches of a GitHub repository through the
// REST API.
package github
