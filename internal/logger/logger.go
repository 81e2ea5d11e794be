package logger

import (
	"context"
	"log"
	"os"
	"strings"
)

// severity orders log levels from most to least verbose.
type severity int

const (
	sevDebug severity = iota
	sevInfo
	sevWarn
	sevError
)

// parseSeverity maps a configured level name to its severity.
// Unknown names fall back to info.
func parseSeverity(name string) severity {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return sevDebug
	case "warn":
		return sevWarn
	case "error":
		return sevError
	default:
		return sevInfo
	}
}

type implLogger struct {
	out *log.Logger
	min severity
}

// New creates a Logger writing timestamped lines to stdout. Messages
// below the given level are dropped.
func New(level string) Logger {
	return &implLogger{
		out: log.New(os.Stdout, "", log.LstdFlags),
		min: parseSeverity(level),
	}
}

func (l *implLogger) printf(s severity, tag, msg string, args []interface{}) {
	if s < l.min {
		return
	}
	l.out.Printf(tag+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.printf(sevDebug, "[DEBUG] ", msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.printf(sevInfo, "[INFO] ", msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.printf(sevWarn, "[WARN] ", msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.printf(sevError, "[ERROR] ", msg, args)
}
