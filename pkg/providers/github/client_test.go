package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"sweepworks/pagesweep/pkg/providers"
)

func TestListBranches(t *testing.T) {
	var (
		requests  []string
		gotHeader http.Header
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/site/branches" {
			http.NotFound(w, r)
			return
		}
		requests = append(requests, r.URL.RawQuery)
		gotHeader = r.Header.Clone()

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		var batch []map[string]string
		switch page {
		case 1:
			for i := 0; i < PerPage; i++ {
				batch = append(batch, map[string]string{"name": fmt.Sprintf("branch-%03d", i)})
			}
		case 2:
			batch = []map[string]string{{"name": "main"}}
		}
		_ = json.NewEncoder(w).Encode(batch)
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL: server.URL,
		Owner:   "acme",
		Repo:    "site",
		Token:   "gh-token",
		Timeout: 5 * time.Second,
	})

	names, err := client.ListBranches(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(names) != PerPage+1 {
		t.Fatalf("expected %d branches, got %d", PerPage+1, len(names))
	}
	if names[len(names)-1] != "main" {
		t.Errorf("expected last branch main, got %q", names[len(names)-1])
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 page requests, got %d", len(requests))
	}
	if requests[0] != "page=1&per_page=100" {
		t.Errorf("unexpected query %q", requests[0])
	}

	if got := gotHeader.Get("Authorization"); got != "Bearer gh-token" {
		t.Errorf("expected bearer token, got %q", got)
	}
	if got := gotHeader.Get("Accept"); got != "application/vnd.github+json" {
		t.Errorf("expected github accept header, got %q", got)
	}
	if got := gotHeader.Get("X-GitHub-Api-Version"); got != apiVersion {
		t.Errorf("expected api version header, got %q", got)
	}
	if got := gotHeader.Get("User-Agent"); got != "pagesweep" {
		t.Errorf("expected default user agent, got %q", got)
	}
}

func TestListBranches_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Owner: "acme", Repo: "missing"})
	_, err := client.ListBranches(context.Background())

	var apiErr *providers.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", apiErr.StatusCode)
	}
}

func TestSplitRepository(t *testing.T) {
	tests := []struct {
		input     string
		owner     string
		repo      string
		expectErr bool
	}{
		{input: "acme/site", owner: "acme", repo: "site"},
		{input: " acme/site ", owner: "acme", repo: "site"},
		{input: "acme", expectErr: true},
		{input: "/site", expectErr: true},
		{input: "acme/", expectErr: true},
		{input: "a/b/c", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			owner, repo, err := SplitRepository(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("got %s/%s, want %s/%s", owner, repo, tt.owner, tt.repo)
			}
		})
	}
}
