// Package providers contains the HTTP plumbing shared by the remote
// services a run talks to.
//
// # Overview
//
// Each backend (Cloudflare Pages, GitHub) lives in its own sub-package and
// embeds a *Client. The Client performs exactly one attempt per request:
// there are no automatic retries, so a failed call surfaces immediately to
// the caller, which decides whether the run can continue.
//
// # Errors
//
// Non-2xx responses are mapped onto typed errors:
//
//   - 401 and 403 become *AuthError
//   - 429 becomes *RateLimitError with the Retry-After delay when present
//   - any other status becomes *APIError carrying the status and body
//
// Deadline expiry becomes *TimeoutError and undecodable bodies become
// *ParseError. Use errors.As to inspect them:
//
//	var authErr *providers.AuthError
//	if errors.As(err, &authErr) {
//	    // bad or missing token
//	}
//
// # Usage
//
//	client := providers.NewClient(providers.Config{
//	    Name:    "cloudflare",
//	    BaseURL: "https://api.cloudflare.com/client/v4",
//	    Token:   token,
//	    Timeout: 30 * time.Second,
//	})
//
//	var out envelope
//	err := client.DoJSON(ctx, http.MethodGet, "/accounts/x/pages/projects/y/deployments", nil, &out)
package providers
