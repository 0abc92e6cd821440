package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// Init configures the process-wide JSON logger at the given level.
func Init(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	})
	slog.SetDefault(slog.New(handler))
}

// WithTraceID returns a context carrying the trace id that Ctx* logging
// functions inject into every record.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func getTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}

func ctxArgs(ctx context.Context, args []any) []any {
	if id := getTraceID(ctx); id != "" {
		return append([]any{slog.String("trace_id", id)}, args...)
	}
	return args
}

func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

func Error(msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{slog.String("error", err.Error())}, args...)
	}
	slog.Error(msg, args...)
}

func CtxDebug(ctx context.Context, msg string, args ...any) {
	slog.Debug(msg, ctxArgs(ctx, args)...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	slog.Info(msg, ctxArgs(ctx, args)...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	slog.Warn(msg, ctxArgs(ctx, args)...)
}

func CtxError(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{slog.String("error", err.Error())}, args...)
	}
	slog.Error(msg, ctxArgs(ctx, args)...)
}
