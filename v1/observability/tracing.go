package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingObserver emits one OpenTelemetry span per observed operation.
//
// Operations are reported to observers after they complete, so the span is
// created retroactively: its start timestamp is derived from the operation's
// duration and it is ended immediately. The span therefore shows up with the
// correct wall-clock extent in the trace backend even though it never existed
// while the operation ran.
type TracingObserver struct {
	tracer trace.Tracer
}

// NewTracingObserver creates a TracingObserver that starts spans on the given
// tracer.
//
// Parameters:
//   - tracer: The OpenTelemetry tracer to create spans with, typically
//     obtained from the application's tracer provider via Tracer("database").
//
// Returns:
//   - *TracingObserver: An observer ready to be attached to a client via its
//     WithObserver setter.
func NewTracingObserver(tracer trace.Tracer) *TracingObserver {
	return &TracingObserver{tracer: tracer}
}

// ObserveOperation records the operation as a client span named
// "<component>.<operation>". Failed operations carry the error and an error
// status; successful ones carry the affected row count.
func (o *TracingObserver) ObserveOperation(ctx OperationContext) {
	end := time.Now()
	start := end.Add(-ctx.Duration)

	attrs := []attribute.KeyValue{
		attribute.String("client.component", ctx.Component),
		attribute.String("client.operation", ctx.Operation),
	}
	if ctx.Resource != "" {
		attrs = append(attrs, attribute.String("client.resource", ctx.Resource))
	}
	if ctx.SubResource != "" {
		attrs = append(attrs, attribute.String("client.sub_resource", ctx.SubResource))
	}

	_, span := o.tracer.Start(context.Background(), ctx.Component+"."+ctx.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(start),
		trace.WithAttributes(attrs...),
	)

	if ctx.Error != nil {
		span.RecordError(ctx.Error, trace.WithTimestamp(end))
		span.SetStatus(codes.Error, ctx.Error.Error())
	} else {
		span.SetAttributes(attribute.Int64("client.size", ctx.Size))
	}

	span.End(trace.WithTimestamp(end))
}
