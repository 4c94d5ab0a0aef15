// Package metrics collects Prometheus metrics for a single reconcile run.
//
// A run is a short-lived process, so nothing is scraped. The collector
// keeps its own registry and is flushed once when the run ends, to a
// node exporter textfile, a Pushgateway, or both:
//
//	collector := metrics.NewCollector()
//	reconciler, _ := retention.NewReconciler(loader, deleter, policy,
//	    retention.WithObserver(collector))
//	result, err := reconciler.Run(ctx)
//	collector.RecordRun(result)
//	err = collector.Flush(ctx, metrics.Sink{TextfilePath: "/var/lib/node_exporter/pagesweep.prom"})
//
// # Metrics
//
//   - pagesweep_decisions_total{environment,action,reason}
//   - pagesweep_outcomes_total{environment,status}
//   - pagesweep_run_duration_seconds
//   - pagesweep_snapshot_deployments{environment}
//   - pagesweep_snapshot_branches
//   - pagesweep_last_run_timestamp_seconds
package metrics
