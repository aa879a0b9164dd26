// Package logrusbackend adapts a logrus logger to ctxlogger.Backend.
package logrusbackend

import (
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/Station-Manager/ctxlogger"
)

// Backend writes ctxlogger records through a logrus logger.
//
// logrus reports write failures on stderr, so calls always return nil.
type Backend struct {
	logger *logrus.Logger
}

var _ ctxlogger.Backend = (*Backend)(nil)

// New wraps logger. A nil logger gets a JSON formatted logrus.New().
func New(logger *logrus.Logger) *Backend {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Backend{logger: logger}
}

func (b *Backend) Debug(event string, fields ctxlogger.Fields, args ...any) error {
	return b.log(logrus.DebugLevel, event, fields, args)
}

func (b *Backend) Info(event string, fields ctxlogger.Fields, args ...any) error {
	return b.log(logrus.InfoLevel, event, fields, args)
}

func (b *Backend) Warning(event string, fields ctxlogger.Fields, args ...any) error {
	return b.log(logrus.WarnLevel, event, fields, args)
}

func (b *Backend) Error(event string, fields ctxlogger.Fields, args ...any) error {
	return b.log(logrus.ErrorLevel, event, fields, args)
}

// Critical logs at logrus FatalLevel through Entry.Log, which writes the
// entry without exiting.
func (b *Backend) Critical(event string, fields ctxlogger.Fields, args ...any) error {
	return b.log(logrus.FatalLevel, event, fields, args)
}

func (b *Backend) Exception(event string, fields ctxlogger.Fields, args ...any) error {
	return b.log(logrus.ErrorLevel, event, fields, args)
}

func (b *Backend) log(level logrus.Level, event string, fields ctxlogger.Fields, args []any) error {
	entry := logrus.NewEntry(b.logger)

	var excErr error
	data := make(logrus.Fields, len(fields))
	for key, val := range fields {
		switch key {
		case ctxlogger.ExcInfoKey:
			if err, ok := val.(error); ok && err != nil {
				excErr = err
			}
		case ctxlogger.StackInfoKey:
			// logrus has no stack renderer; ReportCaller covers the call site.
		default:
			data[key] = val
		}
	}
	if len(data) > 0 {
		entry = entry.WithFields(data)
	}
	if excErr != nil {
		if isNilPointer(excErr) {
			// JSONFormatter would call Error on it.
			entry = entry.WithField(logrus.ErrorKey, "<nil>")
		} else {
			entry = entry.WithError(excErr)
		}
	}

	if len(args) > 0 {
		entry.Logf(level, event, args...)
	} else {
		entry.Log(level, event)
	}
	return nil
}

func isNilPointer(err error) bool {
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
