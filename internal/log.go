package internal

import (
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// Logger provides leveled logging with an optional component prefix
type Logger struct {
	level     LogLevel
	component string
	out       *log.Logger
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level, out: log.Default()}
}

// NewLoggerTo creates a logger writing to w, mainly for tests
func NewLoggerTo(w io.Writer, level LogLevel) *Logger {
	return &Logger{level: level, out: log.New(w, "", 0)}
}

// ParseLogLevel maps ERROR/WARN/INFO/DEBUG/TRACE to a level; unknown values yield INFO
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError
	case "WARN":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	case "TRACE":
		return LogLevelTrace
	}
	return LogLevelInfo
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	return NewLogger(ParseLogLevel(os.Getenv("LOG_LEVEL")))
}

// With returns a logger that tags every line with component
func (l *Logger) With(component string) *Logger {
	return &Logger{level: l.level, component: component, out: l.out}
}

func (l *Logger) logf(tag string, format string, args ...interface{}) {
	prefix := "[" + tag + "] "
	if l.component != "" {
		prefix += "[" + l.component + "] "
	}
	l.out.Printf(prefix+format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		l.logf("ERROR", format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		l.logf("WARN", format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		l.logf("INFO", format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.logf("DEBUG", format, args...)
	}
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LogLevelTrace {
		l.logf("TRACE", format, args...)
	}
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()
