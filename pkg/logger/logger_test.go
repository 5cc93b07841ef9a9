package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCaptureLogger() (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWithConfig(Config{
		Name:   "test",
		Format: FormatJSON,
		Level:  slog.LevelDebug,
		Writer: buf,
	}), buf
}

func TestNew_Success(t *testing.T) {
	logger := New("test-package")

	assert.NotNil(t, logger)
	assert.IsType(t, &SlogLogger{}, logger)
}

func TestNewWithConfig_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
	}{
		{"json format", FormatJSON},
		{"text format", FormatText},
		{"default format", Format("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewWithConfig(Config{
				Name:   "test-service",
				Format: tt.format,
				Level:  slog.LevelDebug,
			})

			assert.NotNil(t, logger)
			assert.IsType(t, &SlogLogger{}, logger)
		})
	}
}

func TestTraceFromContext_ExtractsTraceID(t *testing.T) {
	logger, buf := newCaptureLogger()

	ctx := ContextWithTraceID(context.Background(), "trace-abc-123")
	logger.TraceFromContext(ctx).Info("test message")

	out := buf.String()
	assert.Contains(t, out, "test message")
	assert.Contains(t, out, "traceID")
	assert.Contains(t, out, "trace-abc-123")
}

func TestTraceFromContext_NoTraceID(t *testing.T) {
	logger, buf := newCaptureLogger()

	logger.TraceFromContext(context.Background()).Info("no trace")

	out := buf.String()
	assert.Contains(t, out, "no trace")
	assert.NotContains(t, out, "traceID")
}

func TestNewWithContext(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "ctx-trace")

	logger := NewWithContext(ctx, "test-service")

	assert.NotNil(t, logger)
	assert.IsType(t, &SlogLogger{}, logger)
}

func TestWith_ChainMethod(t *testing.T) {
	logger, buf := newCaptureLogger()

	logger.With("key1", "value1").Function("DoThing").Info("chained")

	out := buf.String()
	assert.Contains(t, out, "key1")
	assert.Contains(t, out, "value1")
	assert.Contains(t, out, "DoThing")
	assert.Contains(t, out, "chained")
}

func TestErr_ReturnsOriginalError(t *testing.T) {
	logger, buf := newCaptureLogger()

	original := errors.New("boom")
	returned := logger.Err("operation failed", original, "id", 7)

	assert.Equal(t, original, returned)
	assert.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestErrMsg_CreatesError(t *testing.T) {
	logger, buf := newCaptureLogger()

	err := logger.ErrMsg("something is missing")

	assert.EqualError(t, err, "something is missing")
	assert.Contains(t, buf.String(), "something is missing")
}

func TestErrorWithType_WrapsSentinel(t *testing.T) {
	logger, _ := newCaptureLogger()

	sentinel := errors.New("not found")
	err := logger.ErrorWithType(sentinel, "row missing", "table", "installations")

	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "row missing")
}

func TestError_CreatesErrorFromMessage(t *testing.T) {
	logger, _ := newCaptureLogger()

	err := logger.Error("bad input", "field", "guid")

	assert.EqualError(t, err, "bad input")
}

func TestTraceIDFromContext_Missing(t *testing.T) {
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
}

func TestTimer_ReturnsStopFunc(t *testing.T) {
	logger, buf := newCaptureLogger()

	stop := logger.Timer("grouping")
	assert.NotNil(t, stop)
	stop()

	assert.Contains(t, buf.String(), "grouping")
}
