// Package telemetry wires logging, metrics and tracing for one run.
//
// # Components
//
//   - logging: slog logger with credential redaction
//   - metrics: Prometheus collector flushed to a textfile or Pushgateway
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//
// # Usage
//
//	tel, err := telemetry.New(ctx, cfg.Telemetry, version, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	reconciler, _ := retention.NewReconciler(loader, deleter, policy, tel.Options()...)
//	result, runErr := reconciler.Run(ctx)
//	if err := tel.Finish(ctx, result, project); err != nil {
//	    tel.Logger().Warn("metrics export failed", "error", err)
//	}
package telemetry
