package ctxlogger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// captureWriter remembers the first write error since the last take, so the
// Service can return sink failures to the caller. Guarded by Service.mu.
type captureWriter struct {
	w   io.Writer
	err error
}

func (c *captureWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}

func (c *captureWriter) take() error {
	err := c.err
	c.err = nil
	return err
}

// logFileName returns the configured file name, or the executable name.
func (s *Service) logFileName() string {
	if s.Config.LogFileName != emptyString {
		return s.Config.LogFileName
	}
	exe, err := os.Executable()
	if err != nil {
		return defaultName
	}
	name := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	if name == emptyString || name == "." {
		return defaultName
	}
	return name
}

func (s *Service) initializeRollingFileLogger() *lumberjack.Logger {
	path := filepath.Join(s.WorkingDir, s.Config.RelLogFileDir, s.logFileName()+".log")

	return &lumberjack.Logger{
		Filename:   path,
		MaxBackups: s.Config.LogFileMaxBackups,
		MaxAge:     s.Config.LogFileMaxAgeDays,
		MaxSize:    s.Config.LogFileMaxSizeMB,
		Compress:   s.Config.LogFileCompress,
	}
}

func (s *Service) initializeWriters() []io.Writer {
	var writers []io.Writer

	// With every sink disabled fall back to JSON on the output.
	if !s.Config.JSONLogging && !s.Config.ConsoleLogging && !s.Config.FileLogging {
		s.Config.JSONLogging = true
	}
	if s.Config.JSONLogging {
		out := s.Output
		if out == nil {
			out = os.Stdout
		}
		writers = append(writers, out)
	}
	if s.Config.ConsoleLogging {
		timeFormat := s.Config.ConsoleTimeFormat
		if timeFormat == emptyString {
			timeFormat = time.RFC3339
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			NoColor:    s.Config.ConsoleNoColor,
			TimeFormat: timeFormat,
		})
	}
	if s.Config.FileLogging {
		s.fileWriter = s.initializeRollingFileLogger()
		writers = append(writers, s.fileWriter)
	}

	return writers
}
