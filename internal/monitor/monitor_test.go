package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/OCAP2/fleet/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticSource struct {
	st registry.Stats
}

func (s staticSource) Stats() registry.Stats { return s.st }

type recordingSink struct {
	mu      sync.Mutex
	samples []registry.Stats
	err     error
	closed  bool
}

func (r *recordingSink) Write(_ context.Context, st registry.Stats, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, st)
	return r.err
}

func (r *recordingSink) Close() error {
	r.closed = true
	return nil
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func TestNewService_Defaults(t *testing.T) {
	s := NewService(Dependencies{Source: staticSource{}})
	assert.Equal(t, 10*time.Second, s.deps.Interval)
	assert.NotNil(t, s.deps.Logger)
	assert.False(t, s.IsRunning())
}

func TestSample_WritesSinkAndStatus(t *testing.T) {
	st := registry.Stats{Live: 3, Streamed: 1, Limit: 64, Refused: 2, Ticks: 9}
	sink := &recordingSink{}
	status := filepath.Join(t.TempDir(), "status.json")

	s := NewService(Dependencies{
		Source:     staticSource{st},
		Sink:       sink,
		StatusFile: status,
		Logger:     discard(),
	})
	require.NoError(t, s.Sample(context.Background()))

	assert.Equal(t, []registry.Stats{st}, sink.samples)
	assert.Equal(t, 1, s.Samples())

	data, err := os.ReadFile(status)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3.0, got["live"])
	assert.Equal(t, 64.0, got["limit"])
	assert.Contains(t, got, "time")
}

func TestSample_NoSink(t *testing.T) {
	s := NewService(Dependencies{Source: staticSource{}, Logger: discard()})
	assert.NoError(t, s.Sample(context.Background()))
}

func TestSample_SinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("down")}
	s := NewService(Dependencies{Source: staticSource{}, Sink: sink, Logger: discard()})
	assert.EqualError(t, s.Sample(context.Background()), "down")
}

func TestStartStop(t *testing.T) {
	sink := &recordingSink{}
	s := NewService(Dependencies{
		Source:   staticSource{registry.Stats{Live: 1}},
		Sink:     sink,
		Interval: 10 * time.Millisecond,
		Logger:   discard(),
	})

	s.Start(context.Background())
	s.Start(context.Background()) // second start is a no-op
	assert.True(t, s.IsRunning())

	require.Eventually(t, func() bool { return sink.count() >= 2 }, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestStart_ContextCancel(t *testing.T) {
	s := NewService(Dependencies{Source: staticSource{}, Interval: time.Hour, Logger: discard()})
	ctx, cancel := context.WithCancel(context.Background())

	s.Start(ctx)
	cancel()
	require.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestClose_FinalSample(t *testing.T) {
	sink := &recordingSink{}
	s := NewService(Dependencies{
		Source:   staticSource{registry.Stats{Live: 4}},
		Sink:     sink,
		Interval: time.Hour,
		Logger:   discard(),
	})

	s.Start(context.Background())
	require.NoError(t, s.Close(context.Background()))

	assert.False(t, s.IsRunning())
	assert.Equal(t, 1, sink.count())
	assert.True(t, sink.closed)
}
