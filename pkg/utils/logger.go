package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Logger writes levelled, timestamped lines to stdout/stderr.
type Logger struct {
	level LogLevel
	out   *log.Logger
	err   *log.Logger
}

func NewLogger(level string) *Logger {
	return &Logger{
		level: ParseLogLevel(level),
		out:   log.New(os.Stdout, "", 0),
		err:   log.New(os.Stderr, "", 0),
	}
}

// NewDiscardLogger drops everything; used by tests.
func NewDiscardLogger() *Logger {
	return &Logger{
		level: LevelError,
		out:   log.New(io.Discard, "", 0),
		err:   log.New(io.Discard, "", 0),
	}
}

func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
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

func (l *Logger) line(color, tag, format string) string {
	return fmt.Sprintf("[%s] %s%-5s%s %s", time.Now().Format("2006-01-02 15:04:05"), color, tag, colorReset, format)
}

func (l *Logger) Debug(format string, args ...any) {
	if l.level > LevelDebug {
		return
	}
	l.out.Printf(l.line(colorCyan, "DEBUG", format), args...)
}

func (l *Logger) Info(format string, args ...any) {
	if l.level > LevelInfo {
		return
	}
	l.out.Printf(l.line(colorGreen, "INFO", format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	if l.level > LevelWarn {
		return
	}
	l.out.Printf(l.line(colorYellow, "WARN", format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(l.line(colorRed, "ERROR", format), args...)
}

func (l *Logger) Fatal(format string, args ...any) {
	l.err.Printf(l.line(colorRed, "FATAL", format), args...)
	os.Exit(1)
}
