package retention

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observer is notified of every Outcome as soon as it is produced.
// Observers run on the executor's goroutine, in decision order.
type Observer interface {
	Observe(ctx context.Context, o Outcome)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, o Outcome)

// Observe calls f(ctx, o).
func (f ObserverFunc) Observe(ctx context.Context, o Outcome) {
	f(ctx, o)
}

// Option configures an Executor or Reconciler.
type Option func(*options)

type options struct {
	component string
	logger    *slog.Logger
	tracer    trace.Tracer
	observers []Observer
}

func defaultOptions(component string) options {
	return options{
		component: component,
		logger:    slog.Default().With("component", component),
		tracer:    noop.NewTracerProvider().Tracer("pagesweep"),
	}
}

// WithLogger sets the logger. A "component" attribute is added.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.With("component", o.component)
		}
	}
}

// WithTracer sets the tracer used for run and deletion spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithObserver registers an observer for every outcome.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}
