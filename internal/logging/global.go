// Package logging provides structured logging for nps.
// This file provides a global logger instance for convenience.
package logging

import (
	"sync"
)

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
	globalOnce   sync.Once
)

// Global returns the global logger instance.
// If not initialized, returns a no-op logger.
func Global() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()

	if l != nil {
		return l
	}

	// Return no-op logger if not initialized
	globalOnce.Do(func() {
		globalMu.Lock()
		if globalLogger == nil {
			globalLogger = NewNoop()
		}
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetGlobal sets the global logger instance.
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// InitGlobal initializes the global logger with the given configuration
// and returns it. If config is nil, default configuration is used.
func InitGlobal(config *Config) *Logger {
	l := New(config)
	SetGlobal(l)
	return l
}
