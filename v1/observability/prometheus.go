package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver exports client operations as Prometheus metrics.
//
// Two metrics are maintained:
//   - client_operations_total, a counter labelled by component, operation
//     and status ("success" or "error")
//   - client_operation_duration_seconds, a histogram labelled by component
//     and operation
type PrometheusObserver struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewPrometheusObserver creates a PrometheusObserver and registers its
// metrics with the given registerer.
//
// Parameters:
//   - registerer: Where to register the metrics. Pass
//     prometheus.DefaultRegisterer to use the process-global registry, or a
//     dedicated registry to keep the metrics isolated.
//
// Returns:
//   - *PrometheusObserver: A configured observer ready to be attached to a
//     client via its WithObserver setter.
//
// Registration uses MustRegister, so creating two observers against the same
// registerer panics. Create one observer per registry and share it between
// clients; the component label keeps their series apart.
func NewPrometheusObserver(registerer prometheus.Registerer) *PrometheusObserver {
	o := &PrometheusObserver{
		operationsTotal: createCounterVec(
			"client_operations_total",
			"Total number of client operations",
			[]string{"component", "operation", "status"},
		),
		operationDuration: createHistogramVec(
			"client_operation_duration_seconds",
			"Duration of client operations in seconds",
			[]string{"component", "operation"},
			prometheus.DefBuckets,
		),
	}

	registerer.MustRegister(o.operationsTotal, o.operationDuration)

	return o
}

// ObserveOperation records the operation's outcome and duration.
func (o *PrometheusObserver) ObserveOperation(ctx OperationContext) {
	status := "success"
	if ctx.Error != nil {
		status = "error"
	}

	o.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	o.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
}

// createCounterVec defines a new CounterVec with standard options.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}
