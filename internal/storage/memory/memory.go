// Package memory keeps registry snapshots in memory and exports them as JSON
// when the backend is closed.
package memory

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/internal/config"
	"github.com/OCAP2/fleet/pkg/core"
)

// ErrUnknownVehicle is returned when a state or removal names a vehicle that
// is not live in the backend.
var ErrUnknownVehicle = errors.New("unknown vehicle")

// VehicleRecord groups a vehicle with all its time-series data
type VehicleRecord struct {
	Vehicle   core.VehicleRecord
	States    []core.VehicleState
	RemovedAt *time.Time
}

// Backend stores registry data in memory and exports to JSON
type Backend struct {
	cfg config.MemoryConfig
	log *slog.Logger

	started  time.Time
	catalog  []catalog.Descriptor
	vehicles []*VehicleRecord                  // registration order
	live     map[core.ElementID]*VehicleRecord // current holder of each element id

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		cfg:  cfg,
		log:  log,
		live: make(map[core.ElementID]*VehicleRecord),
	}
}

// Init resets the backend and marks the start of the snapshot.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.started = time.Now()
	b.catalog = nil
	b.vehicles = nil
	b.live = make(map[core.ElementID]*VehicleRecord)
	return nil
}

// Close exports the snapshot when an output directory is configured.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cfg.OutputDir == "" {
		return nil
	}
	if err := b.exportJSON(time.Now()); err != nil {
		return err
	}
	b.log.Info("Snapshot exported", "path", b.lastExportPath, "vehicles", len(b.vehicles))
	return nil
}

// SaveCatalog replaces the stored model catalog.
func (b *Backend) SaveCatalog(models []catalog.Descriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.catalog = append([]catalog.Descriptor(nil), models...)
	return nil
}

// RecordVehicle registers a new vehicle. A live vehicle with the same element
// id is considered gone from this point on.
func (b *Backend) RecordVehicle(v core.VehicleRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.live[v.ID]; ok && prev.RemovedAt == nil {
		at := v.JoinTime
		prev.RemovedAt = &at
	}

	rec := &VehicleRecord{
		Vehicle: v,
		States:  make([]core.VehicleState, 0),
	}
	b.vehicles = append(b.vehicles, rec)
	b.live[v.ID] = rec
	return nil
}

// RecordVehicleState appends a state sample to a live vehicle.
func (b *Backend) RecordVehicleState(s core.VehicleState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.live[s.VehicleID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownVehicle, s.VehicleID)
	}
	rec.States = append(rec.States, s)
	return nil
}

// RecordRemoval marks a live vehicle as removed.
func (b *Backend) RecordRemoval(id core.ElementID, at time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.live[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownVehicle, id)
	}
	rec.RemovedAt = &at
	delete(b.live, id)
	return nil
}

// Vehicles returns a copy of every recorded vehicle in registration order.
func (b *Backend) Vehicles() []VehicleRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]VehicleRecord, len(b.vehicles))
	for i, rec := range b.vehicles {
		out[i] = VehicleRecord{
			Vehicle:   rec.Vehicle,
			States:    append([]core.VehicleState(nil), rec.States...),
			RemovedAt: rec.RemovedAt,
		}
	}
	return out
}

// ExportPath returns the path of the last exported file.
func (b *Backend) ExportPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
