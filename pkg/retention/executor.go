package retention

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sweepworks/pagesweep/pkg/deploy"
)

// Deleter removes one deployment from the hosting provider.
type Deleter interface {
	DeleteDeployment(ctx context.Context, id string) error
}

// DeleterFunc adapts a function to the Deleter interface.
type DeleterFunc func(ctx context.Context, id string) error

// DeleteDeployment calls f(ctx, id).
func (f DeleterFunc) DeleteDeployment(ctx context.Context, id string) error {
	return f(ctx, id)
}

// ErrNoDeleter is returned by NewExecutor when deletions are requested
// without a Deleter.
var ErrNoDeleter = errors.New("retention: deleter is required unless simulating")

// Executor applies decisions one at a time, in order.
type Executor struct {
	deleter  Deleter
	simulate bool
	opts     options
}

// NewExecutor creates an executor. deleter may be nil only when simulate
// is true.
func NewExecutor(deleter Deleter, simulate bool, opts ...Option) (*Executor, error) {
	if deleter == nil && !simulate {
		return nil, ErrNoDeleter
	}

	o := defaultOptions("retention.executor")
	for _, opt := range opts {
		opt(&o)
	}

	return &Executor{
		deleter:  deleter,
		simulate: simulate,
		opts:     o,
	}, nil
}

// Execute applies every decision and returns the accumulated report.
//
// A failed deletion never stops the run: the decision is recorded as
// DELETE_FAILED and the next one is processed. Once ctx is done, the
// remaining deletions are recorded as failed with the context error
// without contacting the provider.
func (e *Executor) Execute(ctx context.Context, decisions []Decision) Report {
	var report Report

	for _, d := range decisions {
		o := e.apply(ctx, d)
		report = report.record(o)
		for _, obs := range e.opts.observers {
			obs.Observe(ctx, o)
		}
	}

	e.opts.logger.Info("execution finished",
		"decisions", len(decisions),
		"deleted_preview", report.DeletedPreview,
		"deleted_production", report.DeletedProduction,
		"would_delete", report.WouldDelete(),
		"failed", len(report.Failed),
		"simulate", e.simulate,
	)

	return report
}

func (e *Executor) apply(ctx context.Context, d Decision) Outcome {
	if d.Action == ActionKeep {
		return Outcome{Decision: d, Status: StatusKept}
	}

	if e.simulate {
		return Outcome{Decision: d, Status: StatusWouldDelete}
	}

	if err := ctx.Err(); err != nil {
		return e.failed(d, err)
	}

	ctx, span := e.opts.tracer.Start(ctx, "retention.delete", trace.WithAttributes(
		attribute.String("deployment.id", d.ID()),
		attribute.String("deployment.environment", string(d.Environment())),
		attribute.String("retention.reason", string(d.Reason)),
	))
	defer span.End()
	if branch, ok := d.Branch(); ok {
		span.SetAttributes(attribute.String("deployment.branch", branch))
	}

	if err := e.deleter.DeleteDeployment(ctx, d.ID()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		span.SetAttributes(attribute.String("retention.status", string(StatusDeleteFailed)))
		return e.failed(d, err)
	}

	span.SetAttributes(attribute.String("retention.status", string(StatusDeleted)))
	e.logDeleted(d)
	return Outcome{Decision: d, Status: StatusDeleted}
}

func (e *Executor) failed(d Decision, cause error) Outcome {
	err := &DeleteError{
		ID:          d.ID(),
		Environment: d.Environment(),
		Cause:       cause,
	}
	e.opts.logger.Warn("deployment deletion failed",
		"deployment_id", d.ID(),
		"environment", d.Environment(),
		"error", cause,
	)
	return Outcome{Decision: d, Status: StatusDeleteFailed, Err: err}
}

func (e *Executor) logDeleted(d Decision) {
	attrs := []any{
		"deployment_id", d.ID(),
		"environment", d.Environment(),
		"reason", d.Reason,
	}
	if branch, ok := d.Branch(); ok {
		attrs = append(attrs, "branch", branch)
	}

	switch {
	case d.Reason == ReasonBranchDeleted:
		e.opts.logger.Info("deleted preview deployment for deleted branch", attrs...)
	case d.Environment() == deploy.EnvironmentProduction:
		e.opts.logger.Info("deleted old production deployment", attrs...)
	default:
		e.opts.logger.Info("deleted old preview deployment", attrs...)
	}
}
