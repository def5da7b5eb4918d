package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Info logs a message at the info level.
//
// Parameters:
//   - msg: The message to log
//   - err: An optional error to include in the log entry (may be nil)
//   - fields: Optional maps of additional structured fields to include
//
// Example:
//
//	log.Info("connection established", nil, map[string]interface{}{
//	    "dialect": "postgresql",
//	    "host":    "localhost",
//	})
func (l *Logger) Info(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, toZapFields(err, fields)...)
}

// Debug logs a message at the debug level.
// Debug entries are only emitted when the logger was configured with the
// Debug level; at higher levels they are dropped.
func (l *Logger) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, toZapFields(err, fields)...)
}

// Warn logs a message at the warning level.
func (l *Logger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, toZapFields(err, fields)...)
}

// Error logs a message at the error level.
// A stack trace is attached to the entry by the underlying Zap logger.
func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, toZapFields(err, fields)...)
}

// Fatal logs a message at the fatal level and then terminates the process
// via os.Exit(1). Buffered entries are flushed before exiting.
func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Fatal(msg, toZapFields(err, fields)...)
}

// InfoWithContext logs a message at the info level, enriched with the trace
// and span identifiers carried by ctx when tracing integration is enabled.
//
// Parameters:
//   - ctx: Context that may carry an OpenTelemetry span
//   - msg: The message to log
//   - err: An optional error to include in the log entry (may be nil)
//   - fields: Optional maps of additional structured fields to include
func (l *Logger) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.toZapFieldsWithContext(ctx, err, fields)...)
}

// DebugWithContext logs a message at the debug level, enriched with trace
// context when tracing integration is enabled.
func (l *Logger) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.toZapFieldsWithContext(ctx, err, fields)...)
}

// WarnWithContext logs a message at the warning level, enriched with trace
// context when tracing integration is enabled.
func (l *Logger) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.toZapFieldsWithContext(ctx, err, fields)...)
}

// ErrorWithContext logs a message at the error level, enriched with trace
// context when tracing integration is enabled.
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.toZapFieldsWithContext(ctx, err, fields)...)
}

// toZapFields flattens the variadic field maps into zap fields and appends
// the error, if any.
func toZapFields(err error, fields []map[string]interface{}) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)*4+1)
	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			zapFields = append(zapFields, zap.Any(key, value))
		}
	}
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}
	return zapFields
}

// toZapFieldsWithContext extends toZapFields with trace_id and span_id fields
// extracted from the context's span, when present and when tracing is enabled.
func (l *Logger) toZapFieldsWithContext(ctx context.Context, err error, fields []map[string]interface{}) []zap.Field {
	zapFields := toZapFields(err, fields)
	if !l.tracingEnabled {
		return zapFields
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		zapFields = append(zapFields, zap.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		zapFields = append(zapFields, zap.String("span_id", spanCtx.SpanID().String()))
	}
	return zapFields
}
