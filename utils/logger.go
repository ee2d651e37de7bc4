package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level orders log severities. Messages below a Logger's threshold are
// dropped, so per-card Debug chatter can be silenced in normal runs.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level. Unknown values fall back to
// info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger provides structured, leveled logging throughout the application.
type Logger struct {
	min Level
	out *log.Logger
	err *log.Logger
}

// NewLogger creates a Logger writing to stdout/stderr at the info level.
func NewLogger() *Logger {
	return newLogger(os.Stdout, os.Stderr, LevelInfo)
}

func newLogger(out, errOut io.Writer, min Level) *Logger {
	return &Logger{
		min: min,
		out: log.New(out, "", 0),
		err: log.New(errOut, "", 0),
	}
}

// SetLevel adjusts the threshold, typically once config is loaded.
func (l *Logger) SetLevel(min Level) {
	l.min = min
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Debug(format string, args ...any) {
	if l.min > LevelDebug {
		return
	}
	l.out.Printf(fmt.Sprintf("[%s] \033[36mDEBUG\033[0m %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Info(format string, args ...any) {
	if l.min > LevelInfo {
		return
	}
	l.out.Printf(fmt.Sprintf("[%s] \033[32mINFO\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	if l.min > LevelWarn {
		return
	}
	l.out.Printf(fmt.Sprintf("[%s] \033[33mWARN\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(fmt.Sprintf("[%s] \033[31mERROR\033[0m %s\n", l.timestamp(), format), args...)
}
