// Package registry tracks the vehicles currently spawned in the simulation and
// the streamed-in subset that is pulsed every tick.
//
// A Registry is driven from the simulation's update thread and is not safe for
// concurrent use. Its metric gauges read atomics and may be collected from any
// goroutine.
package registry

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/pkg/core"

	"go.opentelemetry.io/otel/metric"
)

// DefaultMaxVehicles keeps well below the simulation's hard cap of 110, which
// becomes unstable close to its limit.
const DefaultMaxVehicles = 64

// Instance is a live vehicle owned by the simulation.
type Instance interface {
	ID() core.ElementID
	Model() core.ModelID
	Position() core.Position3D

	// StreamedInPulse is called once per tick while the vehicle is streamed in.
	StreamedInPulse()
	// StreamOutForABit streams the vehicle out until the streamer picks it up again.
	StreamOutForABit()
	// Destroy releases the vehicle. The owner calls Registry.Unregister from it.
	Destroy()
}

// Pool reports how many vehicles the simulation currently holds.
type Pool interface {
	VehicleCount() int
}

// Config holds registry settings.
type Config struct {
	MaxVehicles int
	Pool        Pool
	Logger      *slog.Logger
	// Meter defaults to the global meter for InstrumentationName.
	Meter metric.Meter
}

// Registry holds non-owning references to live vehicles.
type Registry struct {
	list     []Instance
	byID     map[core.ElementID]Instance
	streamed []Instance

	canRemove bool
	max       int
	pool      Pool
	log       *slog.Logger
	stats     *stats
}

// New creates an empty Registry.
func New(cfg Config) (*Registry, error) {
	if cfg.MaxVehicles <= 0 {
		cfg.MaxVehicles = DefaultMaxVehicles
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := &Registry{
		byID:      make(map[core.ElementID]Instance),
		canRemove: true,
		max:       cfg.MaxVehicles,
		pool:      cfg.Pool,
		log:       cfg.Logger.With("component", "registry"),
	}

	s, err := newStats(cfg.Meter)
	if err != nil {
		return nil, err
	}
	r.stats = s

	return r, nil
}

// Register adds v to the registry. It returns false when the model is invalid,
// v is already registered, or the vehicle limit is reached.
func (r *Registry) Register(v Instance, streamedIn bool) bool {
	if v == nil {
		return false
	}
	if !catalog.IsValidModel(v.Model()) {
		r.log.Debug("refusing vehicle with invalid model", "id", v.ID(), "model", v.Model())
		r.stats.refuse(context.Background(), "invalid_model")
		return false
	}
	if _, exists := r.byID[v.ID()]; exists {
		r.log.Debug("vehicle already registered", "id", v.ID())
		r.stats.refuse(context.Background(), "duplicate")
		return false
	}
	if r.IsLimitReached() {
		r.log.Debug("vehicle limit reached", "id", v.ID(), "limit", r.max)
		r.stats.refuse(context.Background(), "limit")
		return false
	}

	r.list = append(r.list, v)
	r.byID[v.ID()] = v
	if streamedIn {
		r.streamed = append(r.streamed, v)
	}
	r.observe()
	return true
}

// Unregister removes v from the registry and the streamed-in set. Calls made
// while Clear runs are ignored.
func (r *Registry) Unregister(v Instance) {
	if v == nil || !r.canRemove {
		return
	}
	if r.byID[v.ID()] != v {
		return
	}
	delete(r.byID, v.ID())
	r.list = remove(r.list, v)
	r.streamed = remove(r.streamed, v)
	r.observe()
}

// OnStreamIn marks v as streamed in. Streaming in an unregistered vehicle is a
// programming error.
func (r *Registry) OnStreamIn(v Instance) {
	if v == nil {
		return
	}
	if !r.Exists(v) {
		assertf(r.log, "stream-in of unregistered vehicle %d", v.ID())
		return
	}
	if !slices.Contains(r.streamed, v) {
		r.streamed = append(r.streamed, v)
		r.observe()
	}
}

// OnStreamOut removes v from the streamed-in set.
func (r *Registry) OnStreamOut(v Instance) {
	if v == nil {
		return
	}
	r.streamed = remove(r.streamed, v)
	r.observe()
}

// IsStreamedIn reports whether v is in the streamed-in set.
func (r *Registry) IsStreamedIn(v Instance) bool {
	return slices.Contains(r.streamed, v)
}

// Tick pulses every vehicle that was streamed in when the tick started.
// Vehicles unregistered by an earlier pulse of the same tick are skipped.
func (r *Registry) Tick() {
	snapshot := slices.Clone(r.streamed)
	for _, v := range snapshot {
		if !r.Exists(v) {
			continue
		}
		v.StreamedInPulse()
	}
	r.stats.tick(context.Background())
}

// FindNearest returns the registered vehicle closest to pos within radius.
// Ties go to the vehicle registered first.
func (r *Registry) FindNearest(pos core.Position3D, radius float64) (Instance, bool) {
	var closest Instance
	best := math.Inf(1)
	for _, v := range r.list {
		d := pos.DistanceTo(v.Position())
		if d <= radius && d < best {
			closest = v
			best = d
		}
	}
	return closest, closest != nil
}

// Clear destroys every registered vehicle and empties the registry. Callers
// must not keep vehicles obtained from the registry across a Clear.
func (r *Registry) Clear() {
	vehicles := r.list
	r.list = nil
	r.streamed = nil
	r.byID = make(map[core.ElementID]Instance)
	r.observe()

	r.canRemove = false
	for _, v := range vehicles {
		v.Destroy()
	}
	r.canRemove = true

	r.log.Debug("registry cleared", "destroyed", len(vehicles))
}

// Close detaches the registry's gauges from the meter so the registry can be
// collected. The registry stays usable but is no longer observed.
func (r *Registry) Close() error {
	return r.stats.close()
}

func (r *Registry) observe() {
	r.stats.observe(len(r.list), len(r.streamed))
}

// RestreamModel streams out every streamed-in vehicle of the given model so it
// is rebuilt when it streams back in.
func (r *Registry) RestreamModel(id core.ModelID) int {
	n := 0
	for _, v := range slices.Clone(r.list) {
		if v.Model() == id && r.IsStreamedIn(v) {
			v.StreamOutForABit()
			n++
		}
	}
	return n
}

// Get returns the vehicle with the given id.
func (r *Registry) Get(id core.ElementID) (Instance, bool) {
	v, ok := r.byID[id]
	return v, ok
}

// Exists reports whether v is registered.
func (r *Registry) Exists(v Instance) bool {
	if v == nil {
		return false
	}
	return r.byID[v.ID()] == v
}

// Count returns the number of registered vehicles.
func (r *Registry) Count() int {
	return len(r.list)
}

// StreamedInCount returns the number of streamed-in vehicles.
func (r *Registry) StreamedInCount() int {
	return len(r.streamed)
}

// Vehicles returns the registered vehicles in registration order.
func (r *Registry) Vehicles() []Instance {
	return slices.Clone(r.list)
}

// StreamedIn returns the streamed-in vehicles.
func (r *Registry) StreamedIn() []Instance {
	return slices.Clone(r.streamed)
}

// Limit returns the live vehicle ceiling.
func (r *Registry) Limit() int {
	return r.max
}

// IsLimitReached reports whether no more vehicles may be registered. The
// simulation's pool count is used when available since it includes vehicles
// the registry does not know about.
func (r *Registry) IsLimitReached() bool {
	n := len(r.list)
	if r.pool != nil {
		n = r.pool.VehicleCount()
	}
	return n >= r.max
}

// Verify checks that every streamed-in vehicle is registered.
func (r *Registry) Verify() bool {
	for _, v := range r.streamed {
		if !r.Exists(v) {
			assertf(r.log, "streamed-in vehicle %d is not registered", v.ID())
			return false
		}
	}
	return true
}

func remove(list []Instance, v Instance) []Instance {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
