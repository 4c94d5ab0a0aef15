package telemetry

import (
	"context"
	"io"
	"log/slog"

	"sweepworks/pagesweep/pkg/config"
	"sweepworks/pagesweep/pkg/retention"
	"sweepworks/pagesweep/pkg/telemetry/logging"
	"sweepworks/pagesweep/pkg/telemetry/metrics"
	"sweepworks/pagesweep/pkg/telemetry/tracing"
)

// Telemetry holds the observability components of a run.
type Telemetry struct {
	cfg     config.TelemetryConfig
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// New builds the logger, the metrics collector when enabled, and the
// tracer. The logger becomes the slog default so component loggers
// created later inherit its handler.
func New(ctx context.Context, cfg config.TelemetryConfig, version string, logOutput io.Writer) (*Telemetry, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Logging, logOutput))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	tracer, err := tracing.New(ctx, cfg.Tracing, version)
	if err != nil {
		return nil, err
	}

	t := &Telemetry{
		cfg:    cfg,
		logger: logger,
		tracer: tracer,
	}
	if cfg.Metrics.Enabled {
		t.metrics = metrics.NewCollector()
	}
	return t, nil
}

// Logger returns the process logger.
func (t *Telemetry) Logger() *slog.Logger {
	return t.logger
}

// Metrics returns the collector, or nil when metrics are disabled.
func (t *Telemetry) Metrics() *metrics.Collector {
	return t.metrics
}

// Options returns the retention options that attach this telemetry.
func (t *Telemetry) Options() []retention.Option {
	opts := []retention.Option{
		retention.WithLogger(t.logger),
		retention.WithTracer(t.tracer.Tracer()),
	}
	if t.metrics != nil {
		opts = append(opts, retention.WithObserver(t.metrics))
	}
	return opts
}

// Finish records the run result and flushes metrics to their sinks.
func (t *Telemetry) Finish(ctx context.Context, res retention.Result, project string) error {
	if t.metrics == nil {
		return nil
	}
	t.metrics.RecordRun(res)
	return t.metrics.Flush(ctx, metrics.SinkFromConfig(t.cfg.Metrics, project))
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}
