package gitremote

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Lister lists the branches of one remote.
type Lister struct {
	url    string
	auth   transport.AuthMethod
	logger *slog.Logger
}

// NewLister creates a lister for url.
func NewLister(url string, authCfg AuthConfig) (*Lister, error) {
	if url == "" {
		return nil, fmt.Errorf("remote url cannot be empty")
	}
	auth, err := NewAuth(authCfg)
	if err != nil {
		return nil, err
	}

	authType := authCfg.Type
	if authType == "" {
		authType = "none"
	}

	return &Lister{
		url:  url,
		auth: auth,
		logger: slog.Default().With(
			"component", "providers.gitremote",
			"auth", authType,
		),
	}, nil
}

// ListBranches returns the branch names advertised by the remote.
func (l *Lister) ListBranches(ctx context.Context) ([]string, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{l.url},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: l.auth})
	if err != nil {
		return nil, fmt.Errorf("list remote refs: %w", err)
	}

	names := branchNames(refs)
	l.logger.Debug("listed remote branches", "count", len(names))
	return names, nil
}

// branchNames keeps refs/heads/* and returns their short names, sorted.
func branchNames(refs []*plumbing.Reference) []string {
	seen := make(map[string]struct{}, len(refs))
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !ref.Name().IsBranch() {
			continue
		}
		name := ref.Name().Short()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
