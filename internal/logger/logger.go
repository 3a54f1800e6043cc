// Package logger provides structured logging on top of log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Level controls the minimum severity that gets emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LoggerInterface is the logging contract consumed by all modules.
// The *c variants accept an explicit caller skip for wrappers that
// want the log site attributed to their own caller.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	Debugc(ctx context.Context, caller int, msg string, args ...any)
	Infoc(ctx context.Context, caller int, msg string, args ...any)
	Warnc(ctx context.Context, caller int, msg string, args ...any)
	Errorc(ctx context.Context, caller int, msg string, args ...any)
}

// Logger implements LoggerInterface with a JSON slog handler.
type Logger struct {
	handler slog.Handler
}

var _ LoggerInterface = (*Logger)(nil)

// New creates a Logger writing JSON records to w. The service name is
// attached to every record; extra base attributes are optional.
func New(w io.Writer, level Level, service string, attrs []slog.Attr) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
	base := []slog.Attr{slog.String("service", service)}
	base = append(base, attrs...)
	return &Logger{handler: h.WithAttrs(base)}
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) log(ctx context.Context, level slog.Level, skip int, msg string, args ...any) {
	if !l.handler.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(skip, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.handler.Handle(ctx, r)
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, 3, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, 3, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, 3, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, 3, msg, args...)
}

func (l *Logger) Debugc(ctx context.Context, caller int, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, caller, msg, args...)
}

func (l *Logger) Infoc(ctx context.Context, caller int, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, caller, msg, args...)
}

func (l *Logger) Warnc(ctx context.Context, caller int, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, caller, msg, args...)
}

func (l *Logger) Errorc(ctx context.Context, caller int, msg string, args ...any) {
	l.log(ctx, slog.LevelError, caller, msg, args...)
}
