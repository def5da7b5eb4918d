// Package logger provides the structured zap-based logger used across rdb.
//
// The Logger wraps a production-configured zap.Logger (JSON encoding, ISO8601
// timestamps, service/pid fields) behind a small method set that the database
// core consumes through its own Logger interface. Context-aware variants
// (InfoWithContext, ...) additionally extract the OpenTelemetry trace and
// span IDs from the context so log lines can be correlated with traces.
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "orders-api",
//	})
//	log.Info("connected to database", nil, map[string]interface{}{
//		"dialect": "postgresql",
//	})
//
// # FX Module Integration
//
// With fx, include FXModule and provide a logger.Config; the module flushes
// buffered entries on shutdown:
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Info, ServiceName: "orders-api"}
//		}),
//	)
//
// # Tracing Integration
//
// When EnableTracing is set, the *WithContext methods extract the
// OpenTelemetry trace context and add trace_id and span_id fields to each
// entry. Contexts without an active span log normally.
//
// # Thread Safety
//
// All Logger methods are safe for concurrent use by multiple goroutines.
package logger
