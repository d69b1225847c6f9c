package logging

// Level orders log records by severity. Records below the logger's level
// are dropped at the call site.
type Level int

const (
	// DebugLevel carries per-request traces, off in production.
	DebugLevel Level = iota
	// InfoLevel records accepted events and lifecycle transitions.
	InfoLevel
	// WarnLevel records rejected proposals and degraded collaborators.
	WarnLevel
	// ErrorLevel records infrastructure failures that need attention.
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel reads a level name from config or environment. Unknown names
// fall back to InfoLevel rather than failing startup.
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DebugLevel
	case "INFO", "info":
		return InfoLevel
	case "WARN", "warn", "WARNING", "warning":
		return WarnLevel
	case "ERROR", "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field is one structured key-value attribute on a log record. Use the
// constructors in this package so field names stay consistent across the
// engine, the event log adapters and the API.
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logging interface the engine and API accept.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that attaches the given fields to every
	// record it emits.
	With(fields ...Field) Logger
}

// NopLogger discards everything. It is the default for engines and servers
// constructed without an explicit logger.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }

// NewNopLogger returns a logger that discards all output.
func NewNopLogger() Logger {
	return NopLogger{}
}
