package ctxlogger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Level is the severity of a log record.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarningLevel
	ErrorLevel
	CriticalLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarningLevel:
		return "warning"
	case ErrorLevel:
		return "error"
	case CriticalLevel:
		return "critical"
	default:
		return fmt.Sprintf("Level(%d)", int8(l))
	}
}

// ParseLevel parses a level name. The empty string means DebugLevel, so
// nothing is filtered.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case emptyString, "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warning", "warn":
		return WarningLevel, nil
	case "error":
		return ErrorLevel, nil
	case "critical", "fatal":
		return CriticalLevel, nil
	default:
		return DebugLevel, fmt.Errorf("unknown level %q", level)
	}
}

// zerologLevel maps l onto zerolog. Critical maps to FatalLevel, which the
// Service only ever emits through WithLevel so the process is never exited.
func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarningLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case CriticalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.NoLevel
	}
}
