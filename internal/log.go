// Package internal carries the cross-cutting pieces shared by the service
// layer, the API and the entrypoints. The analysis engines themselves never
// log; their results are pure values, so logging stays at the edges.
package internal

import (
	"log"
	"os"
	"strings"
)

// LogLevel orders verbosity from quiet to chatty.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var levelNames = map[string]LogLevel{
	"ERROR": LogLevelError,
	"WARN":  LogLevelWarn,
	"INFO":  LogLevelInfo,
	"DEBUG": LogLevelDebug,
}

// Logger writes leveled, prefixed lines through the stdlib logger. Messages
// above the configured level are dropped.
type Logger struct {
	level LogLevel
}

// NewLogger creates a logger with a fixed level.
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level}
}

// NewDefaultLogger reads LOG_LEVEL from the environment (ERROR, WARN, INFO
// or DEBUG), defaulting to INFO.
func NewDefaultLogger() *Logger {
	if level, ok := levelNames[strings.ToUpper(os.Getenv("LOG_LEVEL"))]; ok {
		return NewLogger(level)
	}
	return NewLogger(LogLevelInfo)
}

func (l *Logger) logf(level LogLevel, prefix, format string, args ...interface{}) {
	if l.level >= level {
		log.Printf(prefix+format, args...)
	}
}

// Error reports failures surfaced to the caller.
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LogLevelError, "[ERROR] ", format, args...)
}

// Warn reports recoverable problems, like one failed panel in a sweep.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(LogLevelWarn, "[WARN] ", format, args...)
}

// Info reports lifecycle events.
func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LogLevelInfo, "[INFO] ", format, args...)
}

// Debug reports per-request detail, like which analysis ran on which table.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LogLevelDebug, "[DEBUG] ", format, args...)
}

// DefaultLogger is the process-wide logger used when a component is not
// handed one explicitly.
var DefaultLogger = NewDefaultLogger()
