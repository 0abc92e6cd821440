package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupTestLogger(buf *bytes.Buffer) {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))
}

func TestGetTraceID(t *testing.T) {
	ctxWithID := WithTraceID(context.Background(), "id123")
	assert.Equal(t, "id123", getTraceID(ctxWithID))

	assert.Empty(t, getTraceID(context.Background()))
}

func TestCtxLogging_InjectsTraceID(t *testing.T) {
	var buf bytes.Buffer
	setupTestLogger(&buf)

	ctx := WithTraceID(context.Background(), "trace-edge")
	CtxInfo(ctx, "info with trace ID")

	log := buf.String()
	assert.Contains(t, log, `"trace_id":"trace-edge"`)
	assert.Contains(t, log, `"msg":"info with trace ID"`)
}

func TestCtxLogging_NoTraceID(t *testing.T) {
	var buf bytes.Buffer
	setupTestLogger(&buf)

	CtxWarn(context.Background(), "warn without trace ID")

	log := buf.String()
	assert.NotContains(t, log, `"trace_id"`)
	assert.Contains(t, log, `"msg":"warn without trace ID"`)
}

func TestCtxError_IncludesErrorAndTraceID(t *testing.T) {
	var buf bytes.Buffer
	setupTestLogger(&buf)

	err := errors.New("fatal error")
	ctx := WithTraceID(context.Background(), "trace-error")

	CtxError(ctx, "error occurred", err)

	log := buf.String()
	assert.Contains(t, log, `"error":"fatal error"`)
	assert.Contains(t, log, `"trace_id":"trace-error"`)
	assert.Contains(t, log, `"msg":"error occurred"`)
}

func TestNonContextError_IncludesErrorField(t *testing.T) {
	var buf bytes.Buffer
	setupTestLogger(&buf)

	Error("error message", errors.New("fail"))

	log := buf.String()
	assert.Contains(t, log, `"error":"fail"`)
	assert.Contains(t, log, `"msg":"error message"`)
	assert.NotContains(t, log, `"trace_id"`)
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	Debug("debug should not show")
	Info("info should show")

	out := buf.String()
	assert.NotContains(t, out, "debug should not show")
	assert.Contains(t, out, "info should show")
}

func TestInit_SetsGlobalLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		Init("info")
	})
	assert.NotPanics(t, func() {
		slog.Info("test message")
	})
}
