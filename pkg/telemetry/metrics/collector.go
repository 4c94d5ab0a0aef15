package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"sweepworks/pagesweep/pkg/deploy"
	"sweepworks/pagesweep/pkg/retention"
)

// Namespace prefixes every metric name.
const Namespace = "pagesweep"

// Collector records run metrics on a private registry. It implements
// retention.Observer so outcomes are counted as they are produced.
type Collector struct {
	registry *prometheus.Registry

	decisionsTotal *prometheus.CounterVec
	outcomesTotal  *prometheus.CounterVec

	runDuration         prometheus.Gauge
	lastRun             prometheus.Gauge
	snapshotDeployments *prometheus.GaugeVec
	snapshotBranches    prometheus.Gauge
}

// NewCollector creates a collector and registers its metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "decisions_total",
				Help:      "Classification decisions by environment, action and reason",
			},
			[]string{"environment", "action", "reason"},
		),

		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "outcomes_total",
				Help:      "Executed decisions by environment and status",
			},
			[]string{"environment", "status"},
		),

		// A gauge rather than a histogram: one run produces one sample.
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last run",
		}),

		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),

		snapshotDeployments: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "snapshot_deployments",
				Help:      "Deployments listed by the hosting provider",
			},
			[]string{"environment"},
		),

		snapshotBranches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "snapshot_branches",
			Help:      "Branches listed by the branch registry",
		}),
	}

	c.registry.MustRegister(
		c.decisionsTotal,
		c.outcomesTotal,
		c.runDuration,
		c.lastRun,
		c.snapshotDeployments,
		c.snapshotBranches,
	)

	return c
}

// Observe counts one outcome and its decision.
func (c *Collector) Observe(_ context.Context, o retention.Outcome) {
	env := string(o.Decision.Environment())
	c.decisionsTotal.WithLabelValues(env, string(o.Decision.Action), string(o.Decision.Reason)).Inc()
	c.outcomesTotal.WithLabelValues(env, string(o.Status)).Inc()
}

// RecordSnapshot sets the snapshot size gauges.
func (c *Collector) RecordSnapshot(snap deploy.Snapshot) {
	c.snapshotBranches.Set(float64(snap.Branches.Len()))
	for _, env := range []deploy.Environment{deploy.EnvironmentPreview, deploy.EnvironmentProduction} {
		c.snapshotDeployments.WithLabelValues(string(env)).Set(float64(snap.Count(env)))
	}
}

// RecordRun sets the run-level gauges from a finished result.
func (c *Collector) RecordRun(res retention.Result) {
	c.RecordSnapshot(res.Snapshot)
	c.runDuration.Set(res.Duration().Seconds())
	if !res.FinishedAt.IsZero() {
		c.lastRun.Set(float64(res.FinishedAt.Unix()))
	}
}

// Registry returns the registry holding the run metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

var _ retention.Observer = (*Collector)(nil)
