package logging

import "sync"

// The process-wide logger used by components that are not handed one.
var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Global returns the process-wide logger. Before InitGlobal, and after
// CloseGlobal, it is a logger that discards everything.
func Global() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewNoop()
	}
	return globalLogger
}

// InitGlobal opens a run log with config and makes it the global logger.
// The previous global logger is closed.
func InitGlobal(config *Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}

	globalMu.Lock()
	previous := globalLogger
	globalLogger = l
	globalMu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

// CloseGlobal closes the run log and reverts to discarding output.
func CloseGlobal() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		return nil
	}
	err := globalLogger.Close()
	globalLogger = nil
	return err
}

// Debug logs to the global logger.
func Debug(msg string, args ...any) {
	Global().Debug(msg, args...)
}

// Info logs to the global logger.
func Info(msg string, args ...any) {
	Global().Info(msg, args...)
}

// Warn logs to the global logger.
func Warn(msg string, args ...any) {
	Global().Warn(msg, args...)
}
