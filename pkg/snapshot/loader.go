package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"sweepworks/pagesweep/pkg/deploy"
)

// BranchRegistry lists the branches that currently exist in the repository.
type BranchRegistry interface {
	ListBranches(ctx context.Context) ([]string, error)
}

// DeploymentDirectory lists every deployment of the hosting project.
type DeploymentDirectory interface {
	ListDeployments(ctx context.Context) ([]deploy.Deployment, error)
}

// Source names the side of the snapshot that failed.
type Source string

const (
	SourceBranches    Source = "branches"
	SourceDeployments Source = "deployments"
)

// FetchError is returned when either listing fails.
type FetchError struct {
	Source Source
	Cause  error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Loader builds snapshots from a branch registry and a deployment directory.
type Loader struct {
	branches    BranchRegistry
	deployments DeploymentDirectory
	logger      *slog.Logger
	now         func() time.Time
}

// NewLoader creates a Loader.
func NewLoader(branches BranchRegistry, deployments DeploymentDirectory, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		branches:    branches,
		deployments: deployments,
		logger:      logger.With("component", "snapshot.loader"),
		now:         time.Now,
	}
}

// Load fetches branches and deployments in parallel. The first failure
// cancels the other request.
func (l *Loader) Load(ctx context.Context) (deploy.Snapshot, error) {
	var (
		names       []string
		deployments []deploy.Deployment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		names, err = l.branches.ListBranches(gctx)
		if err != nil {
			return &FetchError{Source: SourceBranches, Cause: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		deployments, err = l.deployments.ListDeployments(gctx)
		if err != nil {
			return &FetchError{Source: SourceDeployments, Cause: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		l.logger.Error("snapshot fetch failed", "error", err)
		return deploy.Snapshot{}, err
	}

	snap := deploy.Snapshot{
		Branches:    deploy.NewBranchSet(names...),
		Deployments: deployments,
		TakenAt:     l.now(),
	}
	l.logger.Debug("snapshot assembled",
		"branches", snap.Branches.Len(),
		"deployments", len(snap.Deployments),
	)
	return snap, nil
}
