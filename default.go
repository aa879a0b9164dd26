package ctxlogger

import (
	"sync"

	"go.uber.org/atomic"
)

var (
	defaultLogger atomic.Pointer[ContextLogger]
	defaultOnce   sync.Once
)

// SetDefault installs l as the process-wide logger. Call it once during
// startup, before Default is used by other components. A nil l is ignored.
func SetDefault(l *ContextLogger) {
	if l == nil {
		return
	}
	defaultLogger.Store(l)
}

// Default returns the process-wide logger. Unless SetDefault ran first, it
// is built on first use over a Service writing JSON to stdout, and lives for
// the rest of the process.
func Default() *ContextLogger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	defaultOnce.Do(func() {
		svc := NewService(DefaultConfig())
		// DefaultConfig always validates.
		_ = svc.Initialize()
		defaultLogger.CompareAndSwap(nil, New(svc))
	})
	return defaultLogger.Load()
}
