// Package ctxloggertest provides a ctxlogger.Backend that records calls
// instead of writing them, for use in tests.
package ctxloggertest

import (
	"sync"

	"github.com/Station-Manager/ctxlogger"
)

// Method names recorded in Call.Method.
const (
	MethodDebug     = "debug"
	MethodInfo      = "info"
	MethodWarning   = "warning"
	MethodError     = "error"
	MethodCritical  = "critical"
	MethodException = "exception"
)

// Call is one backend invocation. Fields is the map the backend received,
// not a copy, so tests can check it is not shared with the caller.
type Call struct {
	Method string
	Event  string
	Args   []any
	Fields ctxlogger.Fields
}

// Recorder captures every call made to it.
type Recorder struct {
	// Err, when set, is returned from every call after recording it.
	Err error

	mu    sync.RWMutex
	calls []Call
}

var _ ctxlogger.Backend = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{calls: make([]Call, 0)}
}

func (r *Recorder) Debug(event string, fields ctxlogger.Fields, args ...any) error {
	return r.record(MethodDebug, event, fields, args)
}

func (r *Recorder) Info(event string, fields ctxlogger.Fields, args ...any) error {
	return r.record(MethodInfo, event, fields, args)
}

func (r *Recorder) Warning(event string, fields ctxlogger.Fields, args ...any) error {
	return r.record(MethodWarning, event, fields, args)
}

func (r *Recorder) Error(event string, fields ctxlogger.Fields, args ...any) error {
	return r.record(MethodError, event, fields, args)
}

func (r *Recorder) Critical(event string, fields ctxlogger.Fields, args ...any) error {
	return r.record(MethodCritical, event, fields, args)
}

func (r *Recorder) Exception(event string, fields ctxlogger.Fields, args ...any) error {
	return r.record(MethodException, event, fields, args)
}

func (r *Recorder) record(method, event string, fields ctxlogger.Fields, args []any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{
		Method: method,
		Event:  event,
		Args:   args,
		Fields: fields,
	})
	return r.Err
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calls := make([]Call, len(r.calls))
	copy(calls, r.calls)
	return calls
}

// Last returns the most recent call.
func (r *Recorder) Last() (Call, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Reset discards the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = make([]Call, 0)
}
