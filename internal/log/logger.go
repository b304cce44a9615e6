// Package log wraps slog with component-scoped loggers and the field names
// shared across the service.
package log

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger carrying a fixed component attribute.
type Logger struct {
	*slog.Logger
	component string
}

// New creates a component-scoped logger writing text to stdout.
func New(level slog.Level, component string) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger:    slog.New(handler).With(FieldComponent, component),
		component: component,
	}
}

// WithComponent returns a logger scoped to a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(FieldComponent, component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the logger as the process-wide slog default, so
// package-level slog calls inherit the handler.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
