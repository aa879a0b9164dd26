// Package zapbackend adapts a zap logger to ctxlogger.Backend.
package zapbackend

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Station-Manager/ctxlogger"
)

// SeverityKey carries "critical" on records logged through Critical, since
// zap has no level above error that leaves the process running.
const SeverityKey = "severity"

// Backend writes ctxlogger records through a *zap.Logger.
//
// zap reports write failures on its ErrorOutput, so calls always return nil.
type Backend struct {
	logger *zap.Logger
}

var _ ctxlogger.Backend = (*Backend)(nil)

// New wraps logger. A nil logger is replaced with zap.NewNop().
func New(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{logger: logger}
}

// Logger returns the wrapped zap logger.
func (b *Backend) Logger() *zap.Logger {
	return b.logger
}

func (b *Backend) Debug(event string, fields ctxlogger.Fields, args ...any) error {
	b.logger.Debug(message(event, args), zapFields(fields)...)
	return nil
}

func (b *Backend) Info(event string, fields ctxlogger.Fields, args ...any) error {
	b.logger.Info(message(event, args), zapFields(fields)...)
	return nil
}

func (b *Backend) Warning(event string, fields ctxlogger.Fields, args ...any) error {
	b.logger.Warn(message(event, args), zapFields(fields)...)
	return nil
}

func (b *Backend) Error(event string, fields ctxlogger.Fields, args ...any) error {
	b.logger.Error(message(event, args), zapFields(fields)...)
	return nil
}

func (b *Backend) Critical(event string, fields ctxlogger.Fields, args ...any) error {
	zf := append(zapFields(fields), zap.String(SeverityKey, ctxlogger.CriticalLevel.String()))
	b.logger.Error(message(event, args), zf...)
	return nil
}

func (b *Backend) Exception(event string, fields ctxlogger.Fields, args ...any) error {
	b.logger.Error(message(event, args), zapFields(fields)...)
	return nil
}

func message(event string, args []any) string {
	if len(args) == 0 {
		return event
	}
	return fmt.Sprintf(event, args...)
}

// zapFields converts fields in sorted key order. ExcInfoKey becomes a named
// error and StackInfoKey a stack trace when ctxlogger.StackRequested says so.
func zapFields(fields ctxlogger.Fields) []zap.Field {
	zf := make([]zap.Field, 0, len(fields)+1)
	for _, key := range fields.Keys() {
		val := fields[key]
		switch key {
		case ctxlogger.ExcInfoKey:
			if err, ok := val.(error); ok && err != nil {
				zf = append(zf, zap.NamedError(ctxlogger.ExceptionFieldName, err))
			}
		case ctxlogger.StackInfoKey:
			if ctxlogger.StackRequested(val) {
				zf = append(zf, zap.Stack(ctxlogger.StackFieldName))
			}
		default:
			zf = append(zf, zap.Any(key, val))
		}
	}
	return zf
}
