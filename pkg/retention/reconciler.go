package retention

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sweepworks/pagesweep/pkg/deploy"
)

// SnapshotLoader fetches the branches and deployments a run works on.
type SnapshotLoader interface {
	Load(ctx context.Context) (deploy.Snapshot, error)
}

// Result is everything a run produced.
type Result struct {
	Snapshot   deploy.Snapshot
	Decisions  []Decision
	Report     Report
	Policy     Policy
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Reconciler runs the load, classify and execute stages for one policy.
type Reconciler struct {
	loader   SnapshotLoader
	executor *Executor
	policy   Policy
	o        options
}

// NewReconciler validates the policy and prepares a reconciler.
// deleter may be nil when policy.Simulate is true.
func NewReconciler(loader SnapshotLoader, deleter Deleter, policy Policy, opts ...Option) (*Reconciler, error) {
	if loader == nil {
		return nil, fmt.Errorf("retention: snapshot loader is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	executor, err := NewExecutor(deleter, policy.Simulate, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions("retention.reconciler")
	for _, opt := range opts {
		opt(&o)
	}

	return &Reconciler{
		loader:   loader,
		executor: executor,
		policy:   policy,
		o:        o,
	}, nil
}

// Plan loads a snapshot and classifies it without executing anything.
func (r *Reconciler) Plan(ctx context.Context) (deploy.Snapshot, []Decision, error) {
	snap, err := r.load(ctx)
	if err != nil {
		return deploy.Snapshot{}, nil, err
	}
	return snap, r.classify(ctx, snap), nil
}

// Run loads a snapshot, classifies every deployment and applies the
// decisions. An error is returned only when the snapshot could not be
// loaded, in which case nothing was deleted. Per-deployment failures are
// reported through Result.Report.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	result := Result{
		Policy:    r.policy,
		StartedAt: time.Now(),
	}

	ctx, span := r.o.tracer.Start(ctx, "pagesweep.run", trace.WithAttributes(
		attribute.String("retention.mode", string(r.policy.Mode)),
		attribute.Bool("retention.simulate", r.policy.Simulate),
	))
	defer span.End()

	snap, err := r.load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot load failed")
		result.FinishedAt = time.Now()
		return result, err
	}
	result.Snapshot = snap

	result.Decisions = r.classify(ctx, snap)
	result.Report = r.executor.Execute(ctx, result.Decisions)
	result.FinishedAt = time.Now()

	if err := result.Report.Err(); err != nil {
		span.SetStatus(codes.Error, "partial failure")
	}

	if r.policy.Simulate {
		r.o.logger.Info("Dry run complete! No deployments were deleted.",
			"would_delete", result.Report.WouldDelete(),
			"duration", result.Duration(),
		)
	} else {
		r.o.logger.Info("Cleanup complete!",
			"deleted_preview", result.Report.DeletedPreview,
			"deleted_production", result.Report.DeletedProduction,
			"failed", len(result.Report.Failed),
			"duration", result.Duration(),
		)
	}

	return result, nil
}

func (r *Reconciler) load(ctx context.Context) (deploy.Snapshot, error) {
	ctx, span := r.o.tracer.Start(ctx, "snapshot.load")
	defer span.End()

	snap, err := r.loader.Load(ctx)
	if err != nil {
		return deploy.Snapshot{}, err
	}

	span.SetAttributes(
		attribute.Int("snapshot.branches", snap.Branches.Len()),
		attribute.Int("snapshot.deployments", len(snap.Deployments)),
	)
	r.o.logger.Info("snapshot loaded",
		"branches", snap.Branches.Len(),
		"preview_deployments", snap.Count(deploy.EnvironmentPreview),
		"production_deployments", snap.Count(deploy.EnvironmentProduction),
	)
	return snap, nil
}

func (r *Reconciler) classify(ctx context.Context, snap deploy.Snapshot) []Decision {
	_, span := r.o.tracer.Start(ctx, "retention.classify")
	defer span.End()

	decisions := Classify(snap, r.policy)

	deletes := 0
	for _, d := range decisions {
		if d.Action == ActionDelete {
			deletes++
		}
	}
	span.SetAttributes(
		attribute.Int("retention.decisions", len(decisions)),
		attribute.Int("retention.deletes", deletes),
	)
	r.o.logger.Debug("deployments classified",
		"mode", r.policy.Mode,
		"preview_keep", r.policy.PreviewKeep,
		"production_keep", r.policy.ProductionKeep,
		"decisions", len(decisions),
		"deletes", deletes,
	)
	return decisions
}
