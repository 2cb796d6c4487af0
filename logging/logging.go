// Package logging provides the structured logger used across the module.
//
// Components accept a Logger through their options and fall back to the
// process-wide logger returned by GetGlobalLogger. The default logger writes
// one line per event with sorted key=value fields.
package logging

import (
	"strings"
	"sync"
)

// Fields carries structured key/value context for a log event.
type Fields map[string]any

// Level is a log severity.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the upper-case level name.
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

// ParseLevel maps a level name to a Level. Unknown names map to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger is the logging interface consumed by the wavelet packages.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
	SetLevel(level Level)
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewDefaultLogger()
)

// SetGlobalLogger replaces the process-wide logger. A nil logger installs
// a NoOpLogger.
func SetGlobalLogger(l Logger) {
	if l == nil {
		l = &NoOpLogger{}
	}
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the process-wide logger.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Debug logs through the global logger.
func Debug(msg string, fields ...Fields) { GetGlobalLogger().Debug(msg, fields...) }

// Info logs through the global logger.
func Info(msg string, fields ...Fields) { GetGlobalLogger().Info(msg, fields...) }

// Warn logs through the global logger.
func Warn(msg string, fields ...Fields) { GetGlobalLogger().Warn(msg, fields...) }

// Error logs through the global logger.
func Error(err error, msg string, fields ...Fields) { GetGlobalLogger().Error(err, msg, fields...) }
