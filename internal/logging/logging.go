// SPDX-License-Identifier: AGPL-3.0-only
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// Debug level for verbose diagnostic output
	Debug LogLevel = iota
	// Info level for normal operational messages
	Info
	// Warn level for recoverable problems
	Warn
	// Error level for failures
	Error
	// Fatal level logs and then exits the process
	Fatal
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "info"
	}
}

// slogLevel maps a LogLevel to the slog level used by the underlying handler
func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Options configures a Logger
type Options struct {
	// Output is where log lines are written (default: stderr)
	Output io.Writer
	// Level is the minimum level that will be logged
	Level LogLevel
}

// Logger is a leveled logger built on slog
type Logger struct {
	slogger *slog.Logger
	level   LogLevel
	exit    func(int)
}

var (
	defaultLogger   *Logger
	defaultLoggerMu sync.RWMutex
)

// New creates a new Logger with the given options
func New(opts Options) *Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: opts.Level.slogLevel(),
	})

	return &Logger{
		slogger: slog.New(handler),
		level:   opts.Level,
		exit:    os.Exit,
	}
}

// FileLogger creates a Logger that appends to the file at path
func FileLogger(path string, level LogLevel) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return New(Options{
		Output: file,
		Level:  level,
	}), nil
}

// SetDefaultLogger sets the process-wide default logger
func SetDefaultLogger(logger *Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}

// GetDefaultLogger returns the process-wide default logger, creating a
// stderr-backed one if none has been set
func GetDefaultLogger() *Logger {
	defaultLoggerMu.RLock()
	if defaultLogger != nil {
		defer defaultLoggerMu.RUnlock()
		return defaultLogger
	}
	defaultLoggerMu.RUnlock()

	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(Options{Level: Info})
	}
	return defaultLogger
}

// WithField returns a Logger that includes the given field on every message
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		slogger: l.slogger.With(slog.Any(key, value)),
		level:   l.level,
		exit:    l.exit,
	}
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(Debug, format, args...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(Info, format, args...)
}

// Warnf logs a warn-level message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(Warn, format, args...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(Error, format, args...)
}

// Fatalf logs an error-level message and exits the process
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.logf(Fatal, format, args...)
	l.exit(1)
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.slogger.Log(context.Background(), level.slogLevel(), msg)
}
