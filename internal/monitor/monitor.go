// Package monitor samples registry statistics on an interval and hands them
// to a Sink, optionally mirroring the latest sample to a status file.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/OCAP2/fleet/internal/registry"
)

// StatsSource provides registry statistics.
type StatsSource interface {
	Stats() registry.Stats
}

// Sink receives registry samples.
type Sink interface {
	Write(ctx context.Context, st registry.Stats, at time.Time) error
	Close() error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Source     StatsSource
	Sink       Sink   // optional
	StatusFile string // optional, rewritten with the latest sample
	Interval   time.Duration
	Logger     *slog.Logger
}

// Service manages periodic sampling
type Service struct {
	deps Dependencies

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
	samples   int
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = 10 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the sampling goroutine is running
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Samples returns how many samples have been taken.
func (s *Service) Samples() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.samples
}

// Sample takes one sample and delivers it to the sink and status file.
func (s *Service) Sample(ctx context.Context) error {
	st := s.deps.Source.Stats()
	now := time.Now()

	s.mu.Lock()
	s.samples++
	s.mu.Unlock()

	if s.deps.StatusFile != "" {
		if err := writeStatus(s.deps.StatusFile, st, now); err != nil {
			s.deps.Logger.Error("Error writing status file", "error", err)
		}
	}
	if s.deps.Sink == nil {
		return nil
	}
	return s.deps.Sink.Write(ctx, st, now)
}

func writeStatus(path string, st registry.Stats, at time.Time) error {
	data, err := json.MarshalIndent(struct {
		Time time.Time `json:"time"`
		registry.Stats
	}{at.UTC(), st}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}
	return nil
}

// Start starts the sampling goroutine. It stops on Stop or when ctx ends.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.isRunning = true
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			close(done)
		}()

		s.deps.Logger.Debug("Starting registry monitor", "interval", s.deps.Interval)
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Sample(ctx); err != nil {
					s.deps.Logger.Error("Error writing registry sample", "error", err)
				}
			}
		}
	}()
}

// Stop stops the sampling goroutine and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Close stops sampling, takes a final sample and closes the sink.
func (s *Service) Close(ctx context.Context) error {
	s.Stop()

	err := s.Sample(ctx)
	if s.deps.Sink != nil {
		if cerr := s.deps.Sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
