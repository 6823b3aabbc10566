package logger

import (
	"sync"
)

// Level strings accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first caller fixes the level;
// later calls return the same instance no matter what they pass. Level
// strings are matched case-insensitively, and anything unrecognized
// falls back to info.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}
