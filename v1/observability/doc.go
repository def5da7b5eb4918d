// Package observability defines a lightweight observer contract shared by the
// client packages in this module.
//
// Clients that support observation expose a WithObserver setter. Every
// operation the client performs is then reported as an OperationContext,
// carrying the component name, the operation, the resource it touched, how
// long it took and whether it failed. Observers decide what to do with that
// information: export it as Prometheus metrics, emit OpenTelemetry spans,
// write it to the log, or fan it out to several sinks at once.
//
// Usage:
//
//	obs := observability.NewPrometheusObserver(prometheus.DefaultRegisterer)
//	db := database.NewDatabase(cfg, log).WithObserver(obs)
//
// Combining sinks:
//
//	obs := observability.NewMultiObserver(
//	    observability.NewPrometheusObserver(registry),
//	    observability.NewLoggingObserver(log),
//	)
//
// Observers must be safe for concurrent use. Implementations in this package
// are; custom implementations are expected to be as well, since clients call
// ObserveOperation from whichever goroutine executed the operation.
package observability
