package ctxlogger

import (
	stderrs "errors"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrNotInitialized is returned when a Service is used before Initialize or
// after Close.
var ErrNotInitialized = stderrs.New(errMsgNotInitialized)

// Service is the zerolog Backend. Every record goes through the same
// pipeline: bound fields, level, stack info, exception info, timestamp, JSON.
type Service struct {
	// WorkingDir is the base of Config.RelLogFileDir.
	WorkingDir string
	Config     *Config
	// Output receives JSON records when Config.JSONLogging is set. Defaults
	// to os.Stdout.
	Output io.Writer

	fileWriter    *lumberjack.Logger
	sink          *captureWriter
	minLevel      Level
	logger        atomic.Pointer[zerolog.Logger]
	bound         atomic.Pointer[Fields]
	isInitialized atomic.Bool
	initOnce      sync.Once
	initErr       error

	// mu serializes emission so write errors are attributed to their call.
	mu sync.Mutex
}

var zerologOnce sync.Once

// configureZerolog sets the zerolog field names and level values once:
// "event", "timestamp" (UTC, RFC3339Nano), "warning" and "critical". These are
// package globals, so they apply to every zerolog logger in the process.
// zerolog.ErrorHandler is left alone; write errors are also returned by the
// Service call that hit them.
func configureZerolog() {
	zerologOnce.Do(func() {
		zerolog.MessageFieldName = EventFieldName
		zerolog.TimestampFieldName = TimestampFieldName
		zerolog.TimeFieldFormat = time.RFC3339Nano
		zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
		zerolog.LevelWarnValue = WarningLevel.String()
		zerolog.LevelFatalValue = CriticalLevel.String()
	})
}

// NewService returns an uninitialized Service for cfg.
func NewService(cfg *Config) *Service {
	return &Service{Config: cfg}
}

// Initialize validates the configuration and builds the writers. Calling it
// more than once returns the result of the first call.
func (s *Service) Initialize() error {
	const op errors.Op = "ctxlogger.Service.Initialize"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}

	s.initOnce.Do(func() {
		s.initErr = s.initialize(op)
	})
	return s.initErr
}

func (s *Service) initialize(op errors.Op) error {
	if s.Config == nil {
		s.Config = DefaultConfig()
	}
	if err := validateConfig(s.Config); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}

	level, err := ParseLevel(s.Config.Level)
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}
	s.minLevel = level

	if s.Config.FileLogging {
		dir := filepath.Join(s.WorkingDir, s.Config.RelLogFileDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(op).Err(err).Msg(errMsgLogDir)
		}
	}

	configureZerolog()

	s.sink = &captureWriter{w: zerolog.MultiLevelWriter(s.initializeWriters()...)}
	logger := zerolog.New(s.sink).Level(level.zerologLevel())
	s.logger.Store(&logger)

	s.isInitialized.Store(true)
	return nil
}

// Close stops the Service and closes the rolling file. It's safe to call
// Close multiple times.
func (s *Service) Close() error {
	const op errors.Op = "ctxlogger.Service.Close"
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isInitialized.Load() {
		return nil
	}
	s.isInitialized.Store(false)
	s.logger.Store(nil)

	if s.fileWriter != nil {
		if err := s.fileWriter.Close(); err != nil {
			return errors.New(op).Err(err).Msg(errMsgCloseFile)
		}
	}
	return nil
}

// Hook installs zerolog hooks on the underlying logger.
func (s *Service) Hook(hooks ...zerolog.Hook) {
	if !s.isInitialized.Load() {
		return
	}

	for {
		oldLogger := s.logger.Load()
		if oldLogger == nil {
			return
		}

		newLogger := oldLogger.Hook(hooks...)
		if s.logger.CompareAndSwap(oldLogger, &newLogger) {
			break
		}
	}
}

// Bind adds ambient fields merged into every record of this Service. Record
// fields, and therefore ContextLogger context, take precedence over them.
func (s *Service) Bind(fields Fields) {
	s.updateBound(func(current Fields) Fields {
		return mergeFields(current, fields)
	})
}

// Unbind removes ambient fields by name.
func (s *Service) Unbind(keys ...string) {
	s.updateBound(func(current Fields) Fields {
		next := current.Clone()
		for _, k := range keys {
			delete(next, k)
		}
		return next
	})
}

// ClearBound removes all ambient fields.
func (s *Service) ClearBound() {
	s.bound.Store(nil)
}

// Bound returns a copy of the ambient fields.
func (s *Service) Bound() Fields {
	if p := s.bound.Load(); p != nil {
		return p.Clone()
	}
	return nil
}

func (s *Service) updateBound(update func(Fields) Fields) {
	for {
		old := s.bound.Load()
		var current Fields
		if old != nil {
			current = *old
		}
		next := update(current)
		if s.bound.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (s *Service) Debug(event string, fields Fields, args ...any) error {
	return s.emit(DebugLevel, event, fields, args)
}

func (s *Service) Info(event string, fields Fields, args ...any) error {
	return s.emit(InfoLevel, event, fields, args)
}

func (s *Service) Warning(event string, fields Fields, args ...any) error {
	return s.emit(WarningLevel, event, fields, args)
}

func (s *Service) Error(event string, fields Fields, args ...any) error {
	return s.emit(ErrorLevel, event, fields, args)
}

func (s *Service) Critical(event string, fields Fields, args ...any) error {
	return s.emit(CriticalLevel, event, fields, args)
}

// Exception records at error level; the error bound under ExcInfoKey is
// written under ExceptionFieldName.
func (s *Service) Exception(event string, fields Fields, args ...any) error {
	return s.emit(ErrorLevel, event, fields, args)
}

func (s *Service) emit(level Level, event string, fields Fields, args []any) error {
	if s == nil || !s.isInitialized.Load() {
		return ErrNotInitialized
	}
	if level < s.minLevel {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Close may have run while waiting for the lock.
	logger := s.logger.Load()
	if logger == nil {
		return ErrNotInitialized
	}

	// 1. ambient bound fields, overridden by the record's own
	var bound Fields
	if p := s.bound.Load(); p != nil {
		bound = *p
	}
	record := mergeFields(bound, fields)

	// 2. level
	e := logger.WithLevel(level.zerologLevel())

	// 3. stack info
	if v, ok := record[StackInfoKey]; ok {
		delete(record, StackInfoKey)
		if StackRequested(v) {
			delete(record, StackFieldName)
			e.Str(StackFieldName, string(debug.Stack()))
		}
	}

	// 4. exception info
	if v, ok := record[ExcInfoKey]; ok {
		delete(record, ExcInfoKey)
		if err, isErr := v.(error); isErr && err != nil {
			for _, key := range errorFieldNames(ExceptionFieldName) {
				delete(record, key)
			}
			appendError(e, ExceptionFieldName, err)
		}
	}

	// 5. timestamp
	e.Timestamp()

	// Stamped keys replace record fields of the same name. An empty event is
	// omitted, so a record "event" field is kept in that case.
	delete(record, zerolog.LevelFieldName)
	delete(record, zerolog.TimestampFieldName)
	if event != emptyString {
		delete(record, zerolog.MessageFieldName)
	}

	// 6. JSON
	appendFields(e, record, 0)
	if len(args) > 0 {
		e.Msgf(event, args...)
	} else {
		e.Msg(event)
	}

	return s.sink.take()
}
