package cloudflare

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"sweepworks/pagesweep/pkg/deploy"
	"sweepworks/pagesweep/pkg/providers"
)

const (
	// DefaultBaseURL is the Cloudflare v4 API root.
	DefaultBaseURL = "https://api.cloudflare.com/client/v4"

	// PageSize is the number of deployments the API returns per page.
	PageSize = 25

	providerName = "cloudflare"
)

// Config configures a Client.
type Config struct {
	BaseURL     string
	AccountID   string
	ProjectName string
	APIToken    string
	Timeout     time.Duration
	UserAgent   string

	// RequestsPerSecond limits outgoing requests; zero disables the limit.
	RequestsPerSecond float64
	Burst             int

	// ForceDelete adds force=true to delete requests, which also removes
	// aliased deployments.
	ForceDelete bool

	HTTPClient *http.Client
}

// Client talks to the Pages deployments API of one project.
type Client struct {
	*providers.Client
	config  Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a client for cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		Client: providers.NewClient(providers.Config{
			Name:       providerName,
			BaseURL:    cfg.BaseURL,
			Token:      cfg.APIToken,
			Timeout:    cfg.Timeout,
			UserAgent:  cfg.UserAgent,
			HTTPClient: cfg.HTTPClient,
		}),
		config:  cfg,
		limiter: rate.NewLimiter(limit, burst),
		logger:  slog.Default().With("component", "providers.cloudflare"),
	}
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type envelope[T any] struct {
	Success *bool        `json:"success"`
	Errors  []apiMessage `json:"errors"`
	Result  T            `json:"result"`
}

func (e envelope[T]) err() error {
	if e.Success != nil && *e.Success {
		return nil
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, m := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%d: %s", m.Code, m.Message))
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "request was not successful")
	}
	return &providers.APIError{
		Provider:   providerName,
		StatusCode: http.StatusOK,
		Message:    strings.Join(msgs, "; "),
	}
}

type deploymentRecord struct {
	ID                string `json:"id"`
	ShortID           string `json:"short_id"`
	Environment       string `json:"environment"`
	CreatedOn         string `json:"created_on"`
	DeploymentTrigger struct {
		Metadata struct {
			Branch     string `json:"branch"`
			CommitHash string `json:"commit_hash"`
		} `json:"metadata"`
	} `json:"deployment_trigger"`
}

func (r deploymentRecord) toDeployment() (deploy.Deployment, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedOn)
	if err != nil {
		return deploy.Deployment{}, &providers.ParseError{
			Provider:    providerName,
			RawResponse: r.CreatedOn,
			Cause:       fmt.Errorf("deployment %s: invalid created_on: %w", r.ID, err),
		}
	}

	env, _ := deploy.ParseEnvironment(r.Environment)

	var opts []deploy.Option
	if b := r.DeploymentTrigger.Metadata.Branch; b != "" {
		opts = append(opts, deploy.WithBranch(b))
	}
	if c := r.DeploymentTrigger.Metadata.CommitHash; c != "" {
		opts = append(opts, deploy.WithCommit(c))
	}
	return deploy.New(r.ID, env, created, opts...), nil
}

func (c *Client) deploymentsPath() string {
	return fmt.Sprintf("/accounts/%s/pages/projects/%s/deployments",
		url.PathEscape(c.config.AccountID), url.PathEscape(c.config.ProjectName))
}

// ListDeployments returns every deployment of the project in the order the
// API lists them. Pages shift when a deployment is created mid-listing, so a
// record already returned on an earlier page is skipped.
func (c *Client) ListDeployments(ctx context.Context) ([]deploy.Deployment, error) {
	var all []deploy.Deployment
	seen := make(map[string]struct{})

	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var env envelope[[]deploymentRecord]
		query := url.Values{"page": {strconv.Itoa(page)}}
		if err := c.DoJSON(ctx, http.MethodGet, c.deploymentsPath(), query, &env); err != nil {
			return nil, err
		}
		if err := env.err(); err != nil {
			return nil, err
		}

		for _, rec := range env.Result {
			d, err := rec.toDeployment()
			if err != nil {
				return nil, err
			}
			if _, ok := deploy.ParseEnvironment(rec.Environment); !ok {
				c.logger.Warn("deployment has unknown environment",
					"deployment_id", rec.ID,
					"environment", rec.Environment,
				)
			}
			if _, dup := seen[d.ID]; dup {
				c.logger.Debug("skipping repeated deployment",
					"deployment_id", d.ID,
					"page", page,
				)
				continue
			}
			seen[d.ID] = struct{}{}
			all = append(all, d)
		}

		c.logger.Debug("fetched deployments page",
			"page", page,
			"count", len(env.Result),
		)

		if len(env.Result) < PageSize {
			break
		}
	}

	return all, nil
}

// DeleteDeployment deletes one deployment by id.
func (c *Client) DeleteDeployment(ctx context.Context, id string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var query url.Values
	if c.config.ForceDelete {
		query = url.Values{"force": {"true"}}
	}

	var env envelope[any]
	path := c.deploymentsPath() + "/" + url.PathEscape(id)
	if err := c.DoJSON(ctx, http.MethodDelete, path, query, &env); err != nil {
		return err
	}
	if env.Success == nil && env.Errors == nil && env.Result == nil {
		// An empty body on a 2xx response is treated as success.
		return nil
	}
	return env.err()
}
