package ctxlogger_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Station-Manager/ctxlogger"
	"github.com/Station-Manager/ctxlogger/ctxloggertest"
)

func newTestLogger() (*ctxlogger.ContextLogger, *ctxloggertest.Recorder) {
	rec := ctxloggertest.NewRecorder()
	return ctxlogger.New(rec), rec
}

type leveledCall func(l *ctxlogger.ContextLogger, event string, fields ctxlogger.Fields, args ...any) error

var leveledMethods = map[string]leveledCall{
	ctxloggertest.MethodDebug:    (*ctxlogger.ContextLogger).Debug,
	ctxloggertest.MethodInfo:     (*ctxlogger.ContextLogger).Info,
	ctxloggertest.MethodWarning:  (*ctxlogger.ContextLogger).Warning,
	ctxloggertest.MethodError:    (*ctxlogger.ContextLogger).Error,
	ctxloggertest.MethodCritical: (*ctxlogger.ContextLogger).Critical,
}

func lastCall(t *testing.T, rec *ctxloggertest.Recorder) ctxloggertest.Call {
	t.Helper()
	call, ok := rec.Last()
	require.True(t, ok, "expected a backend call")
	return call
}

func TestNew(t *testing.T) {
	logger, rec := newTestLogger()

	assert.Same(t, rec, logger.Backend())
	assert.Empty(t, logger.Context())
}

func TestContextLogger_AddContext(t *testing.T) {
	t.Run("accumulates disjoint keys", func(t *testing.T) {
		logger, _ := newTestLogger()

		logger.AddContext(ctxlogger.Fields{"key1": "value1", "key2": "value2"})
		assert.Equal(t, ctxlogger.Fields{"key1": "value1", "key2": "value2"}, logger.Context())

		logger.AddContext(ctxlogger.Fields{"key3": "value3"})
		assert.Equal(t, ctxlogger.Fields{"key1": "value1", "key2": "value2", "key3": "value3"}, logger.Context())
	})

	t.Run("last write wins", func(t *testing.T) {
		logger, _ := newTestLogger()

		logger.AddContext(ctxlogger.Fields{"k": "v1"})
		logger.AddContext(ctxlogger.Fields{"k": "v2"})

		assert.Equal(t, "v2", logger.Context()["k"])
	})

	t.Run("accepts any value", func(t *testing.T) {
		logger, _ := newTestLogger()

		logger.AddContext(ctxlogger.Fields{"n": 1, "ok": true, "nested": ctxlogger.Fields{"a": 1.5}, "nil": nil})
		assert.Len(t, logger.Context(), 4)
	})

	t.Run("empty and nil are no-ops", func(t *testing.T) {
		logger, _ := newTestLogger()

		logger.AddContext(nil)
		logger.AddContext(ctxlogger.Fields{})
		assert.Empty(t, logger.Context())
	})

	t.Run("input map is not retained", func(t *testing.T) {
		logger, _ := newTestLogger()

		in := ctxlogger.Fields{"k": "v"}
		logger.AddContext(in)
		in["k"] = "changed"
		in["extra"] = true

		assert.Equal(t, ctxlogger.Fields{"k": "v"}, logger.Context())
	})

	t.Run("context snapshot is a copy", func(t *testing.T) {
		logger, rec := newTestLogger()
		logger.AddContext(ctxlogger.Fields{"k": "v"})

		snapshot := logger.Context()
		snapshot["k"] = "tampered"
		snapshot["other"] = 1

		require.NoError(t, logger.Info("msg", nil))
		assert.Equal(t, ctxlogger.Fields{"k": "v"}, lastCall(t, rec).Fields)
	})
}

func TestContextLogger_LeveledMethods(t *testing.T) {
	for method, call := range leveledMethods {
		t.Run(method, func(t *testing.T) {
			logger, rec := newTestLogger()
			logger.AddContext(ctxlogger.Fields{"context_key": "context_value"})

			require.NoError(t, call(logger, method+" message", ctxlogger.Fields{"extra_key": "extra_value"}))

			calls := rec.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, method, calls[0].Method)
			assert.Equal(t, method+" message", calls[0].Event)
			assert.Empty(t, calls[0].Args)
			assert.Equal(t, ctxlogger.Fields{
				"extra_key":   "extra_value",
				"context_key": "context_value",
			}, calls[0].Fields)
		})
	}
}

func TestContextLogger_ContextOverridesCallFields(t *testing.T) {
	for method, call := range leveledMethods {
		t.Run(method, func(t *testing.T) {
			logger, rec := newTestLogger()
			logger.AddContext(ctxlogger.Fields{"a": "ctx"})

			require.NoError(t, call(logger, "msg", ctxlogger.Fields{"a": "call", "b": "call"}))

			assert.Equal(t, ctxlogger.Fields{"a": "ctx", "b": "call"}, lastCall(t, rec).Fields)
		})
	}

	t.Run("exception", func(t *testing.T) {
		logger, rec := newTestLogger()
		logger.AddContext(ctxlogger.Fields{"a": "ctx"})
		err := errors.New("boom")

		require.NoError(t, logger.Exception(err, "msg", ctxlogger.Fields{"a": "call"}))

		assert.Equal(t, ctxlogger.Fields{"a": "ctx", ctxlogger.ExcInfoKey: err}, lastCall(t, rec).Fields)
	})
}

func TestContextLogger_NonCollidingMerge(t *testing.T) {
	logger, rec := newTestLogger()
	logger.AddContext(ctxlogger.Fields{"c": "x"})

	require.NoError(t, logger.Info("msg", ctxlogger.Fields{"e": "y"}))

	assert.Equal(t, ctxlogger.Fields{"c": "x", "e": "y"}, lastCall(t, rec).Fields)
}

func TestContextLogger_NoContextPassthrough(t *testing.T) {
	t.Run("call fields only", func(t *testing.T) {
		logger, rec := newTestLogger()

		require.NoError(t, logger.Info("msg", ctxlogger.Fields{"k": "v"}))

		call := lastCall(t, rec)
		assert.Equal(t, "msg", call.Event)
		assert.Equal(t, ctxlogger.Fields{"k": "v"}, call.Fields)
	})

	t.Run("no fields at all", func(t *testing.T) {
		logger, rec := newTestLogger()

		require.NoError(t, logger.Debug("debug message", nil))
		require.NoError(t, logger.Info("info message", nil))

		calls := rec.Calls()
		require.Len(t, calls, 2)
		assert.Nil(t, calls[0].Fields)
		assert.Nil(t, calls[1].Fields)
	})

	t.Run("empty event", func(t *testing.T) {
		logger, rec := newTestLogger()

		require.NoError(t, logger.Info("", ctxlogger.Fields{"k": "v"}))
		assert.Equal(t, "", lastCall(t, rec).Event)
	})
}

func TestContextLogger_Exception(t *testing.T) {
	t.Run("binds the error", func(t *testing.T) {
		logger, rec := newTestLogger()
		logger.AddContext(ctxlogger.Fields{"context_key": "context_value"})
		exc := errors.New("test exception")

		require.NoError(t, logger.Exception(exc, "exception message", ctxlogger.Fields{"extra_key": "extra_value"}))

		call := lastCall(t, rec)
		assert.Equal(t, ctxloggertest.MethodException, call.Method)
		assert.Equal(t, "exception message", call.Event)
		assert.Equal(t, ctxlogger.Fields{
			"extra_key":          "extra_value",
			"context_key":        "context_value",
			ctxlogger.ExcInfoKey: exc,
		}, call.Fields)
	})

	t.Run("without fields or context", func(t *testing.T) {
		logger, rec := newTestLogger()
		exc := errors.New("test exception")

		require.NoError(t, logger.Exception(exc, "msg", nil))
		assert.Equal(t, ctxlogger.Fields{ctxlogger.ExcInfoKey: exc}, lastCall(t, rec).Fields)
	})

	t.Run("error wins over reserved key collisions", func(t *testing.T) {
		logger, rec := newTestLogger()
		logger.AddContext(ctxlogger.Fields{ctxlogger.ExcInfoKey: "from context"})
		exc := errors.New("explicit")

		require.NoError(t, logger.Exception(exc, "msg", ctxlogger.Fields{ctxlogger.ExcInfoKey: "from call"}))

		assert.Same(t, exc, lastCall(t, rec).Fields[ctxlogger.ExcInfoKey])
		assert.Equal(t, "from context", logger.Context()[ctxlogger.ExcInfoKey])
	})

	t.Run("positional args", func(t *testing.T) {
		logger, rec := newTestLogger()

		require.NoError(t, logger.Exception(errors.New("x"), "failed %s", nil, "job"))
		assert.Equal(t, []any{"job"}, lastCall(t, rec).Args)
	})
}

func TestContextLogger_ContextUnchangedByLogging(t *testing.T) {
	logger, _ := newTestLogger()
	logger.AddContext(ctxlogger.Fields{"request_id": "r1"})
	want := logger.Context()

	for i := 0; i < 5; i++ {
		require.NoError(t, logger.Info("msg", ctxlogger.Fields{"i": i, "transient": true}))
		require.NoError(t, logger.Exception(errors.New("boom"), "msg", ctxlogger.Fields{"i": i}))
	}

	assert.Equal(t, want, logger.Context())
}

func TestContextLogger_PositionalPassthrough(t *testing.T) {
	logger, rec := newTestLogger()
	logger.AddContext(ctxlogger.Fields{"c": 1})

	require.NoError(t, logger.Info("msg", ctxlogger.Fields{"k": "v"}, "p1", "p2"))

	call := lastCall(t, rec)
	assert.Equal(t, "msg", call.Event)
	assert.Equal(t, []any{"p1", "p2"}, call.Args)
	assert.Equal(t, ctxlogger.Fields{"k": "v", "c": 1}, call.Fields)
}

func TestContextLogger_NoAliasing(t *testing.T) {
	logger, rec := newTestLogger()
	logger.AddContext(ctxlogger.Fields{"ctx": "value"})

	callFields := ctxlogger.Fields{"k": "v"}
	require.NoError(t, logger.Info("msg", callFields))

	// the caller's map is not folded into
	assert.Equal(t, ctxlogger.Fields{"k": "v"}, callFields)

	// the backend's map is neither the caller's nor the context
	received := lastCall(t, rec).Fields
	received["backend_added"] = true
	assert.NotContains(t, callFields, "backend_added")
	assert.NotContains(t, logger.Context(), "backend_added")
}

func TestContextLogger_BackendErrorsPropagate(t *testing.T) {
	backendErr := errors.New("sink unavailable")

	calls := map[string]func(l *ctxlogger.ContextLogger) error{
		"debug":     func(l *ctxlogger.ContextLogger) error { return l.Debug("m", nil) },
		"info":      func(l *ctxlogger.ContextLogger) error { return l.Info("m", nil) },
		"warning":   func(l *ctxlogger.ContextLogger) error { return l.Warning("m", nil) },
		"error":     func(l *ctxlogger.ContextLogger) error { return l.Error("m", nil) },
		"critical":  func(l *ctxlogger.ContextLogger) error { return l.Critical("m", nil) },
		"exception": func(l *ctxlogger.ContextLogger) error { return l.Exception(errors.New("x"), "m", nil) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			logger, rec := newTestLogger()
			rec.Err = backendErr

			err := call(logger)
			assert.True(t, err == backendErr, "backend error must be returned unchanged, got %v", err)
			assert.Len(t, rec.Calls(), 1)
		})
	}
}

func TestContextLogger_NilBackendFailsOnUse(t *testing.T) {
	logger := ctxlogger.New(nil)
	logger.AddContext(ctxlogger.Fields{"k": "v"})

	assert.Panics(t, func() { _ = logger.Info("msg", nil) })
}

func TestContextLogger_SlowRequestScenario(t *testing.T) {
	logger, rec := newTestLogger()

	logger.AddContext(ctxlogger.Fields{"request_id": "r1"})
	require.NoError(t, logger.Warning("slow request", ctxlogger.Fields{"latency_ms": 200}))

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ctxloggertest.MethodWarning, calls[0].Method)
	assert.Equal(t, "slow request", calls[0].Event)
	assert.Equal(t, ctxlogger.Fields{"latency_ms": 200, "request_id": "r1"}, calls[0].Fields)
}

func TestContextLogger_ConcurrentUse(t *testing.T) {
	logger, rec := newTestLogger()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				logger.AddContext(ctxlogger.Fields{fmt.Sprintf("g%d", g): i})
				_ = logger.Info("tick", ctxlogger.Fields{"i": i})
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, rec.Calls(), 8*50)
	ctx := logger.Context()
	assert.Len(t, ctx, 8)
	for g := 0; g < 8; g++ {
		assert.Equal(t, 49, ctx[fmt.Sprintf("g%d", g)])
	}
}
