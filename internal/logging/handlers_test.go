package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }

func textHandler(buf *bytes.Buffer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})
}

func TestMultiHandler_DeliversToEveryHandler(t *testing.T) {
	var file, graylog bytes.Buffer
	multi := NewMultiHandler(nil, textHandler(&file, slog.LevelInfo), nil, textHandler(&graylog, slog.LevelInfo))
	require.Len(t, multi.handlers, 2)

	slog.New(multi).Info("vehicle spawned", "id", 7)

	assert.Contains(t, file.String(), "id=7")
	assert.Contains(t, graylog.String(), "id=7")
}

func TestMultiHandler_Enabled(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	tests := []struct {
		name     string
		handlers []slog.Handler
		level    slog.Level
		want     bool
	}{
		{"no handlers", nil, slog.LevelError, false},
		{"info only, debug record", []slog.Handler{textHandler(&buf, slog.LevelInfo)}, slog.LevelDebug, false},
		{"info only, info record", []slog.Handler{textHandler(&buf, slog.LevelInfo)}, slog.LevelInfo, true},
		{"any debug handler enables", []slog.Handler{textHandler(&buf, slog.LevelWarn), textHandler(&buf, slog.LevelDebug)}, slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMultiHandler(tt.handlers...).Enabled(ctx, tt.level))
		})
	}
}

func TestMultiHandler_SkipsDisabledHandlers(t *testing.T) {
	var quiet, verbose bytes.Buffer
	multi := NewMultiHandler(textHandler(&quiet, slog.LevelWarn), textHandler(&verbose, slog.LevelDebug))

	slog.New(multi).Debug("pulse", "frame", 3)

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "frame=3")
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	errA := errors.New("graylog down")
	errB := errors.New("otel down")
	multi := NewMultiHandler(failingHandler{err: errA}, textHandler(&buf, slog.LevelInfo), failingHandler{err: errB})

	rec := slog.NewRecord(testTime, slog.LevelInfo, "registry cleared", 0)
	err := multi.Handle(context.Background(), rec)

	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, buf.String(), "registry cleared")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(textHandler(&buf, slog.LevelInfo))

	logger := slog.New(multi.WithAttrs([]slog.Attr{slog.String("component", "registry")}).WithGroup("vehicle"))
	logger.Info("refused", "model", 570)

	assert.Contains(t, buf.String(), "component=registry")
	assert.Contains(t, buf.String(), "vehicle.model=570")
	assert.Same(t, multi, multi.WithGroup(""))
}

type frameKey struct{}

func TestContextHandler_ProviderSeesRecordContext(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(textHandler(&buf, slog.LevelInfo), func(ctx context.Context) []slog.Attr {
		if f, ok := ctx.Value(frameKey{}).(int); ok {
			return []slog.Attr{slog.Int("frame", f)}
		}
		return nil
	})
	logger := slog.New(h)

	logger.InfoContext(context.WithValue(context.Background(), frameKey{}, 42), "tick")
	logger.Info("idle")

	out := buf.String()
	assert.Contains(t, out, "msg=tick frame=42")
	assert.NotContains(t, out, "msg=idle frame")
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(textHandler(&buf, slog.LevelInfo), func(context.Context) []slog.Attr {
		return []slog.Attr{slog.Int("live", 5)}
	})

	slog.New(h.WithAttrs([]slog.Attr{slog.String("component", "fleet")}).WithGroup("g")).Info("msg", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "component=fleet")
	assert.Contains(t, out, "g.k=v")
	assert.Contains(t, out, "g.live=5")
	assert.Same(t, h, h.WithGroup(""))
}

func TestContextHandler_NilProvider(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewContextHandler(textHandler(&buf, slog.LevelInfo), nil)).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
