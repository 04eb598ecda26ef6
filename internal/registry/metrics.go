package registry

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName names the meter the registry's instruments live on.
const InstrumentationName = "github.com/OCAP2/fleet/internal/registry"

// stats holds the registry's OTel instruments plus counters for status
// reporting. The counters are atomics because the gauge callback runs on the
// metric reader's goroutine while the registry is mutated elsewhere.
type stats struct {
	live     metric.Int64ObservableGauge
	streamed metric.Int64ObservableGauge
	refused  metric.Int64Counter
	ticks    metric.Int64Counter

	liveCount     atomic.Int64
	streamedCount atomic.Int64
	refusedTotal  atomic.Int64
	tickTotal     atomic.Int64

	registration metric.Registration
}

func newStats(m metric.Meter) (*stats, error) {
	if m == nil {
		m = otel.Meter(InstrumentationName)
	}
	s := &stats{}

	var err error
	s.live, err = m.Int64ObservableGauge(
		"registry.vehicles.live",
		metric.WithDescription("Vehicles currently registered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating live gauge: %w", err)
	}

	s.streamed, err = m.Int64ObservableGauge(
		"registry.vehicles.streamed",
		metric.WithDescription("Vehicles currently streamed in"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating streamed gauge: %w", err)
	}

	s.registration, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(s.live, s.liveCount.Load())
			o.ObserveInt64(s.streamed, s.streamedCount.Load())
			return nil
		},
		s.live, s.streamed,
	)
	if err != nil {
		return nil, fmt.Errorf("registering registry callback: %w", err)
	}

	s.refused, err = m.Int64Counter(
		"registry.vehicles.refused",
		metric.WithDescription("Registrations refused"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating refused counter: %w", err)
	}

	s.ticks, err = m.Int64Counter(
		"registry.ticks",
		metric.WithDescription("Ticks processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	return s, nil
}

func (s *stats) refuse(ctx context.Context, reason string) {
	s.refusedTotal.Add(1)
	s.refused.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (s *stats) tick(ctx context.Context) {
	s.tickTotal.Add(1)
	s.ticks.Add(ctx, 1)
}

func (s *stats) observe(live, streamed int) {
	s.liveCount.Store(int64(live))
	s.streamedCount.Store(int64(streamed))
}

func (s *stats) close() error {
	if s.registration == nil {
		return nil
	}
	err := s.registration.Unregister()
	s.registration = nil
	if err != nil {
		return fmt.Errorf("unregistering registry callback: %w", err)
	}
	return nil
}

// Stats is a point-in-time summary of the registry.
type Stats struct {
	Live     int   `json:"live"`
	Streamed int   `json:"streamed"`
	Limit    int   `json:"limit"`
	Refused  int64 `json:"refused"`
	Ticks    int64 `json:"ticks"`
}

// Stats returns current counts.
func (r *Registry) Stats() Stats {
	return Stats{
		Live:     len(r.list),
		Streamed: len(r.streamed),
		Limit:    r.max,
		Refused:  r.stats.refusedTotal.Load(),
		Ticks:    r.stats.tickTotal.Load(),
	}
}
