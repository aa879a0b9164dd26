package ctxlogger

import (
	"maps"
	"sync"
)

// ContextLogger merges a durable set of context fields into every record it
// hands to its Backend.
//
// For a key present both in the context and in the fields of a call, the
// context value is emitted. Context only grows: AddContext adds or replaces
// entries, logging calls never change it.
type ContextLogger struct {
	backend Backend

	mu      sync.RWMutex
	context Fields
}

// New returns a ContextLogger with an empty context delegating to backend.
// The backend is not validated; a nil backend panics on first use.
func New(backend Backend) *ContextLogger {
	return &ContextLogger{
		backend: backend,
		context: make(Fields),
	}
}

// Backend returns the backend the logger delegates to.
func (l *ContextLogger) Backend() Backend {
	return l.backend
}

// AddContext merges fields into the context. Incoming values replace existing
// ones with the same key. The fields map is copied, not retained.
func (l *ContextLogger) AddContext(fields Fields) {
	if len(fields) == 0 {
		return
	}
	l.mu.Lock()
	maps.Copy(l.context, fields)
	l.mu.Unlock()
}

// Context returns a copy of the accumulated context.
func (l *ContextLogger) Context() Fields {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.context)
}

func (l *ContextLogger) Debug(event string, fields Fields, args ...any) error {
	return l.backend.Debug(event, l.combine(fields), args...)
}

func (l *ContextLogger) Info(event string, fields Fields, args ...any) error {
	return l.backend.Info(event, l.combine(fields), args...)
}

func (l *ContextLogger) Warning(event string, fields Fields, args ...any) error {
	return l.backend.Warning(event, l.combine(fields), args...)
}

func (l *ContextLogger) Error(event string, fields Fields, args ...any) error {
	return l.backend.Error(event, l.combine(fields), args...)
}

func (l *ContextLogger) Critical(event string, fields Fields, args ...any) error {
	return l.backend.Critical(event, l.combine(fields), args...)
}

// Exception logs err under ExcInfoKey through the backend's Exception method.
// err replaces any ExcInfoKey value coming from fields or the context.
func (l *ContextLogger) Exception(err error, event string, fields Fields, args ...any) error {
	merged := l.combine(fields)
	if merged == nil {
		merged = make(Fields, 1)
	}
	merged[ExcInfoKey] = err
	return l.backend.Exception(event, merged, args...)
}

// combine returns a new map of fields overridden by the context.
func (l *ContextLogger) combine(fields Fields) Fields {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return mergeFields(fields, l.context)
}
