package observability

import (
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the observability package.
// It provides a PrometheusObserver to the dependency injection container and
// exposes it under the Observer interface so client modules can depend on the
// contract instead of the concrete exporter.
//
// Dependencies required by this module:
//   - A prometheus.Registerer must be available in the container. Supply the
//     process-global registry with:
//
//	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
//	    observability.FXModule,
//	    database.FXModule,
//	    // other modules...
//	)
//
// Applications that also want logging or tracing sinks can decorate the
// provided Observer with a MultiObserver instead of using this module.
var FXModule = fx.Module("observability",
	fx.Provide(
		NewPrometheusObserver,
		fx.Annotate(
			ProvideObserver,
			fx.As(new(Observer)),
		),
	),
)

// ProvideObserver adapts the concrete PrometheusObserver for consumers that
// depend on the Observer interface.
//
// Parameters:
//   - o: The PrometheusObserver instance provided by the module
//
// Returns:
//   - *PrometheusObserver: The same instance, annotated as Observer by FXModule
//
// This function is used by the FXModule and normally doesn't need to be called
// directly.
func ProvideObserver(o *PrometheusObserver) *PrometheusObserver {
	return o
}
