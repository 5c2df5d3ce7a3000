// Package rdblog is the ambient logger used by cmd/rdbdump. The decode
// core never logs; only the CLI front end does, and only to stderr.
//
// Grounded on the teacher pack's own CLI tool convention (df2redis's
// internal/logger): a thin leveled wrapper around the standard library's
// log.Logger. Nothing in the corpus imports a third-party logging
// framework (zap/zerolog/logrus), so none is introduced here either.
package rdblog

import (
	"io"
	"log"
	"os"
)

// Level is a logging verbosity threshold.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled wrapper over a single stdlib *log.Logger.
type Logger struct {
	level Level
	out   *log.Logger
}

// New builds a Logger writing to w at the given verbosity. Messages above
// the configured level are discarded before formatting.
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// Default builds a Logger writing to stderr at LevelInfo, the verbosity
// cmd/rdbdump runs at unless -v/--verbose raises it.
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

func (l *Logger) logf(level Level, format string, args ...any) {
	if level > l.level {
		return
	}
	l.out.Printf("[%s] "+format, append([]any{level}, args...)...)
}

func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
