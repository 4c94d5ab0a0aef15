// Package tracing sets up OpenTelemetry for a run.
//
// Tracing is off by default and New then hands out a noop tracer, so
// callers never branch on whether it is enabled. When enabled, spans are
// batched to an OTLP gRPC collector and flushed by Shutdown:
//
//	t, err := tracing.New(ctx, cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer t.Shutdown(context.Background())
//
//	reconciler, _ := retention.NewReconciler(loader, deleter, policy,
//	    retention.WithTracer(t.Tracer()))
//
// A run produces one pagesweep.run span with snapshot.load,
// retention.classify and one retention.delete child per deletion.
package tracing
