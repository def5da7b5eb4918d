package observability

// Logger is the minimal logging surface the LoggingObserver needs.
// The logger package's *Logger satisfies it.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// LoggingObserver writes every observed operation to the log. Successful
// operations are logged at debug level, failed ones at warning level.
type LoggingObserver struct {
	log Logger
}

// NewLoggingObserver returns an observer that logs operations through log.
func NewLoggingObserver(log Logger) *LoggingObserver {
	return &LoggingObserver{log: log}
}

// ObserveOperation logs the operation with its component, resource, duration
// and size as structured fields.
func (o *LoggingObserver) ObserveOperation(ctx OperationContext) {
	fields := map[string]interface{}{
		"component": ctx.Component,
		"operation": ctx.Operation,
		"duration":  ctx.Duration.String(),
		"size":      ctx.Size,
	}
	if ctx.Resource != "" {
		fields["resource"] = ctx.Resource
	}
	if ctx.SubResource != "" {
		fields["sub_resource"] = ctx.SubResource
	}
	for key, value := range ctx.Metadata {
		fields[key] = value
	}

	if ctx.Error != nil {
		o.log.Warn("operation failed", ctx.Error, fields)
		return
	}
	o.log.Debug("operation completed", nil, fields)
}
