// Package log provides centralized logging for quartet using charmbracelet/log.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance.
var Logger *log.Logger

func init() {
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: true,
		Prefix:          "quartet",
		Level:           log.InfoLevel,
	})
}

// SetLevel sets the logging level.
func SetLevel(level log.Level) {
	Logger.SetLevel(level)
}

// SetOutput redirects log output. The TUI uses this to keep log lines
// from tearing the rendered view.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// ParseLevel converts a level name such as "debug" or "warn" into a log.Level.
func ParseLevel(name string) (log.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Debug logs a debug message.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// CloseError logs an error from a close operation if the error is not nil.
// This is useful for handling deferred close errors.
func CloseError(resource string, err error) {
	if err != nil {
		Logger.Warn("failed to close resource", "resource", resource, "error", err)
	}
}
