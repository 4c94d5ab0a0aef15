package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an error response is kept in messages.
const maxErrorBody = 512

// Config configures a Client.
type Config struct {
	// Name identifies the service in errors and logs
	Name string

	// BaseURL is prepended to every relative request path
	BaseURL string

	// Token is sent as a bearer token when non-empty
	Token string

	// Timeout bounds a single request (0 means no client-side timeout)
	Timeout time.Duration

	// UserAgent is sent on every request when non-empty
	UserAgent string

	// Headers are added to every request
	Headers map[string]string

	// HTTPClient overrides the default client (used by tests)
	HTTPClient *http.Client
}

// Client is the HTTP base embedded by each backend. Each call makes a
// single attempt.
type Client struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) *Client {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		config: cfg,
		client: client,
		logger: slog.Default().With("component", "providers."+cfg.Name),
	}
}

// Name returns the configured service name.
func (c *Client) Name() string {
	return c.config.Name
}

// URL resolves path against the base URL and attaches query.
func (c *Client) URL(path string, query url.Values) string {
	u := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		u = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do performs one request and returns the response for a 2xx status.
// Any other status is mapped to a typed error and the body is closed.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	target := c.URL(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}

	c.logger.Debug("sending request",
		"method", method,
		"path", req.URL.Path,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	message := strings.TrimSpace(string(errorBody))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &AuthError{
			Provider:   c.config.Name,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	case http.StatusTooManyRequests:
		return nil, &RateLimitError{
			Provider:   c.config.Name,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    message,
		}
	default:
		return nil, &APIError{
			Provider:   c.config.Name,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}
}

// DoJSON performs a request and decodes a JSON response into out.
// out may be nil when the body is not needed.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, out any) error {
	resp, err := c.Do(ctx, method, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Provider: c.config.Name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ParseError{
			Provider:    c.config.Name,
			RawResponse: truncate(string(data), maxErrorBody),
			Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Provider: c.config.Name, Cause: ctx.Err()}
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s request: %w", c.config.Name, ctx.Err())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Provider: c.config.Name, Timeout: c.config.Timeout, Cause: err}
	}
	return fmt.Errorf("%s request: %w", c.config.Name, err)
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(header)); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
