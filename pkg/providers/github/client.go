package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sweepworks/pagesweep/pkg/providers"
)

const (
	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// PerPage is the page size requested when listing branches.
	PerPage = 100

	apiVersion = "2022-11-28"
)

// Config configures a Client.
type Config struct {
	BaseURL   string
	Owner     string
	Repo      string
	Token     string
	Timeout   time.Duration
	UserAgent string

	HTTPClient *http.Client
}

// Client lists branches of one repository.
type Client struct {
	*providers.Client
	config Config
	logger *slog.Logger
}

// NewClient creates a client for cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "pagesweep"
	}

	return &Client{
		Client: providers.NewClient(providers.Config{
			Name:      "github",
			BaseURL:   cfg.BaseURL,
			Token:     cfg.Token,
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
			Headers: map[string]string{
				"Accept":               "application/vnd.github+json",
				"X-GitHub-Api-Version": apiVersion,
			},
			HTTPClient: cfg.HTTPClient,
		}),
		config: cfg,
		logger: slog.Default().With("component", "providers.github"),
	}
}

// SplitRepository splits "owner/repo" as found in GITHUB_REPOSITORY.
func SplitRepository(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", s)
	}
	return owner, repo, nil
}

type branchRecord struct {
	Name string `json:"name"`
}

// ListBranches returns the names of every branch in the repository.
func (c *Client) ListBranches(ctx context.Context) ([]string, error) {
	path := fmt.Sprintf("/repos/%s/%s/branches",
		url.PathEscape(c.config.Owner), url.PathEscape(c.config.Repo))

	var names []string
	for page := 1; ; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(PerPage)},
			"page":     {strconv.Itoa(page)},
		}

		var batch []branchRecord
		if err := c.DoJSON(ctx, http.MethodGet, path, query, &batch); err != nil {
			return nil, err
		}
		for _, b := range batch {
			names = append(names, b.Name)
		}

		c.logger.Debug("fetched branches page", "page", page, "count", len(batch))

		if len(batch) < PerPage {
			break
		}
	}

	return names, nil
}
