package logger

// Level controls the minimum severity the logger emits.
type Level string

// Supported log levels.
const (
	Debug   Level = "debug"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Config holds the construction-time options for the logger.
type Config struct {
	// Level is the minimum severity to emit. Defaults to Info when empty.
	Level Level

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string

	// EnableTracing makes the *WithContext methods extract OpenTelemetry
	// trace and span IDs from the context and attach them to entries.
	EnableTracing bool
}
