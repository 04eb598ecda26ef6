// Package fleet owns the live vehicles of a session. It assigns model-derived
// properties on spawn, keeps the registry in step with the simulation and
// records every vehicle's lifetime to a storage backend.
package fleet

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/internal/classify"
	"github.com/OCAP2/fleet/internal/mission"
	"github.com/OCAP2/fleet/internal/registry"
	"github.com/OCAP2/fleet/internal/seat"
	"github.com/OCAP2/fleet/internal/storage"
	"github.com/OCAP2/fleet/internal/variant"
	"github.com/OCAP2/fleet/pkg/core"
)

var (
	// ErrInvalidModel is returned when spawning a model outside the catalog.
	ErrInvalidModel = errors.New("invalid model")
	// ErrRefused is returned when the registry refuses a vehicle.
	ErrRefused = errors.New("vehicle refused")
	// ErrUnknownVehicle is returned for ids that are not registered.
	ErrUnknownVehicle = errors.New("unknown vehicle")
)

// Dependencies holds the collaborators of a Manager. Backend is optional.
type Dependencies struct {
	Registry   *registry.Registry
	Classifier *classify.Classifier
	Seats      *seat.Resolver
	Variants   *variant.Randomizer
	Backend    storage.Backend
	Session    *mission.Context
	Logger     *slog.Logger

	// StreamRadius enables the streaming pass around a focus point.
	StreamRadius float64
}

// Manager serializes access to the registry, which is driven from both the
// tick loop and buffered command handlers.
type Manager struct {
	mu    sync.Mutex
	deps  Dependencies
	reg   *registry.Registry
	log   *slog.Logger
	now   func() time.Time
	focus *core.Position3D
}

// New creates a Manager.
func New(deps Dependencies) (*Manager, error) {
	if deps.Registry == nil {
		return nil, errors.New("fleet: registry is required")
	}
	if deps.Classifier == nil {
		deps.Classifier = classify.New(nil)
	}
	if deps.Seats == nil {
		deps.Seats = seat.NewResolver(deps.Classifier)
	}
	if deps.Variants == nil {
		deps.Variants = variant.New()
	}
	if deps.Session == nil {
		deps.Session = mission.NewContext()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Manager{
		deps: deps,
		reg:  deps.Registry,
		log:  deps.Logger.With("component", "fleet"),
		now:  time.Now,
	}, nil
}

// Spawn creates a vehicle with a classified type and random variants and
// registers it.
func (m *Manager) Spawn(id core.ElementID, model core.ModelID, pos core.Position3D, streamedIn bool) (*Vehicle, error) {
	if !catalog.IsValidModel(model) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidModel, model)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v := &Vehicle{
		m:         m,
		id:        id,
		model:     model,
		typ:       m.deps.Classifier.ClassifyModel(model),
		variants:  m.deps.Variants.PickVariants(model),
		pos:       pos,
		joinTime:  m.now(),
		joinFrame: m.deps.Session.Frame(),
	}

	if !m.reg.Register(v, streamedIn) {
		return nil, fmt.Errorf("%w: id %d model %d (live %d, limit %d)",
			ErrRefused, id, model, m.reg.Count(), m.reg.Limit())
	}

	if b := m.deps.Backend; b != nil {
		if err := b.RecordVehicle(v.Record()); err != nil {
			m.log.Warn("failed to record vehicle", "id", id, "error", err)
		}
	}

	m.log.Debug("vehicle spawned", "id", id, "model", model, "type", v.typ, "streamedIn", streamedIn)
	return v, nil
}

// Destroy removes the vehicle with the given id.
func (m *Manager) Destroy(id core.ElementID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.lookup(id)
	if err != nil {
		return err
	}
	v.Destroy()
	return nil
}

// Move updates the position of a vehicle.
func (m *Manager) Move(id core.ElementID, pos core.Position3D) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.lookup(id)
	if err != nil {
		return err
	}
	v.pos = pos
	return nil
}

// StreamIn marks a vehicle as streamed in.
func (m *Manager) StreamIn(id core.ElementID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.lookup(id)
	if err != nil {
		return err
	}
	m.reg.OnStreamIn(v)
	return nil
}

// StreamOut marks a vehicle as streamed out.
func (m *Manager) StreamOut(id core.ElementID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.lookup(id)
	if err != nil {
		return err
	}
	m.reg.OnStreamOut(v)
	return nil
}

// SetFocus sets the point the streaming pass measures from. Streaming is
// driven by explicit StreamIn/StreamOut calls until a focus is set.
func (m *Manager) SetFocus(pos core.Position3D) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focus = &pos
}

// Tick advances the session by one frame, runs the streaming pass and pulses
// the streamed-in vehicles. It returns the new frame.
func (m *Manager) Tick() uint {
	m.mu.Lock()
	defer m.mu.Unlock()

	frame := m.deps.Session.Advance()
	if m.focus != nil && m.deps.StreamRadius > 0 {
		m.stream(*m.focus, m.deps.StreamRadius)
	}
	m.reg.Tick()
	return frame
}

func (m *Manager) stream(focus core.Position3D, radius float64) {
	for _, inst := range m.reg.Vehicles() {
		v, ok := inst.(*Vehicle)
		if !ok {
			continue
		}
		if v.holdOut > 0 {
			v.holdOut--
			continue
		}
		in := focus.DistanceTo(v.pos) <= radius
		switch streamed := m.reg.IsStreamedIn(v); {
		case in && !streamed:
			m.reg.OnStreamIn(v)
		case !in && streamed:
			m.reg.OnStreamOut(v)
		}
	}
}

// Close stops metric observation of the registry.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.Close()
}

// Nearest returns the vehicle closest to pos within radius.
func (m *Manager) Nearest(pos core.Position3D, radius float64) (*Vehicle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.reg.FindNearest(pos, radius)
	if !ok {
		return nil, false
	}
	v, ok := inst.(*Vehicle)
	return v, ok
}

// Clear destroys every vehicle and returns how many there were.
func (m *Manager) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.reg.Count()
	m.reg.Clear()
	return n
}

// RestreamModel streams out every streamed-in vehicle of model.
func (m *Manager) RestreamModel(model core.ModelID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.RestreamModel(model)
}

// Get returns a snapshot of the vehicle with the given id.
func (m *Manager) Get(id core.ElementID) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	return v.snapshot(), nil
}

// Vehicles returns snapshots of every registered vehicle in registration order.
func (m *Manager) Vehicles() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.reg.Vehicles()
	out := make([]Snapshot, 0, len(list))
	for _, inst := range list {
		if v, ok := inst.(*Vehicle); ok {
			out = append(out, v.snapshot())
		}
	}
	return out
}

// Stats returns the registry counters.
func (m *Manager) Stats() registry.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.Stats()
}

// Frame returns the current capture frame.
func (m *Manager) Frame() uint {
	return m.deps.Session.Frame()
}

// Seat resolves a passenger index of model.
func (m *Manager) Seat(model core.ModelID, index uint8) core.Seat {
	return m.deps.Seats.ResolveSeat(model, index)
}

// PickVariants draws a variant pair for model.
func (m *Manager) PickVariants(model core.ModelID) core.VariantPair {
	return m.deps.Variants.PickVariants(model)
}

// ClassifyModel returns the vehicle type of model.
func (m *Manager) ClassifyModel(model core.ModelID) core.VehicleType {
	return m.deps.Classifier.ClassifyModel(model)
}

func (m *Manager) lookup(id core.ElementID) (*Vehicle, error) {
	inst, ok := m.reg.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVehicle, id)
	}
	v, ok := inst.(*Vehicle)
	if !ok {
		return nil, fmt.Errorf("%w: %d is not managed", ErrUnknownVehicle, id)
	}
	return v, nil
}
