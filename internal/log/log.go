package log

import (
	"io"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// LevelFromString parses a level name case-insensitively. Unknown names
// fall back to INFO.
func LevelFromString(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE":
		return LevelNone
	default:
		return LevelInfo
	}
}

// Logger is safe for concurrent use. Children created with With share the
// parent's output and level.
type Logger struct {
	logger *log.Logger
	level  *atomic.Int32
	prefix string
}

func New(out io.Writer, level Level) *Logger {
	l := &Logger{
		logger: log.New(out, "", log.Ltime|log.Lmicroseconds),
		level:  new(atomic.Int32),
	}
	l.level.Store(int32(level))
	return l
}

// Discard returns a logger that drops everything.
func Discard() *Logger { return New(io.Discard, LevelNone) }

// With returns a child logger tagging every line with [component].
func (l *Logger) With(component string) *Logger {
	return &Logger{
		logger: l.logger,
		level:  l.level,
		prefix: l.prefix + "[" + strings.ToUpper(component) + "] ",
	}
}

func (l *Logger) enabled(level Level) bool {
	return Level(l.level.Load()) <= level
}

func (l *Logger) printf(tag, format string, v ...interface{}) {
	l.logger.Printf(tag+l.prefix+format, v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.printf("DEBUG: ", format, v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.printf("INFO: ", format, v...)
	}
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.enabled(LevelWarn) {
		l.printf("WARN: ", format, v...)
	}
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	if l.enabled(LevelError) {
		l.printf("ERROR: ", format, v...)
	}
}

func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *Logger) Level() Level {
	return Level(l.level.Load())
}
