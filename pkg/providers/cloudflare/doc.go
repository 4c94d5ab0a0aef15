// Package cloudflare lists and deletes Cloudflare Pages deployments.
//
// Deployments are listed page by page (25 per page) until a short page is
// returned. Every request waits on a client-side rate limiter first.
package cloudflare
