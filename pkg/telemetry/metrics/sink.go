package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"sweepworks/pagesweep/pkg/config"
)

// Sink names where Flush writes the collected metrics.
type Sink struct {
	// TextfilePath is written atomically in the text exposition format.
	TextfilePath string

	// PushgatewayURL receives a PUT for Job.
	PushgatewayURL string
	Job            string

	// Grouping adds grouping labels to the push, e.g. the project name.
	Grouping map[string]string
}

// SinkFromConfig maps the telemetry metrics section onto a Sink.
func SinkFromConfig(cfg config.MetricsConfig, project string) Sink {
	s := Sink{
		TextfilePath:   cfg.TextfilePath,
		PushgatewayURL: cfg.PushgatewayURL,
		Job:            cfg.Job,
	}
	if project != "" {
		s.Grouping = map[string]string{"project": project}
	}
	return s
}

// Flush exports the registry to every configured sink. Both sinks are
// attempted even when the first fails.
func (c *Collector) Flush(ctx context.Context, sink Sink) error {
	logger := slog.Default().With("component", "telemetry.metrics")
	var errs []error

	if sink.TextfilePath != "" {
		if err := writeTextfile(sink.TextfilePath, c.registry); err != nil {
			errs = append(errs, err)
		} else {
			logger.Debug("metrics written", "path", sink.TextfilePath)
		}
	}

	if sink.PushgatewayURL != "" {
		if err := c.push(ctx, sink); err != nil {
			errs = append(errs, err)
		} else {
			logger.Debug("metrics pushed", "url", sink.PushgatewayURL, "job", sink.Job)
		}
	}

	return errors.Join(errs...)
}

func (c *Collector) push(ctx context.Context, sink Sink) error {
	job := sink.Job
	if job == "" {
		job = config.DefaultMetricsJob
	}

	pusher := push.New(sink.PushgatewayURL, job).Gatherer(c.registry)
	for name, value := range sink.Grouping {
		pusher = pusher.Grouping(name, value)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", sink.PushgatewayURL, err)
	}
	return nil
}

// writeTextfile creates the parent directory so a first run works on a
// fresh collector directory.
func writeTextfile(path string, g prometheus.Gatherer) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
