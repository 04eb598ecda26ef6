package fleet

import (
	"time"

	"github.com/OCAP2/fleet/pkg/core"
)

// Vehicle is a live vehicle registered through a Manager. Its methods are
// called by the registry while the Manager's lock is held.
type Vehicle struct {
	m *Manager

	id        core.ElementID
	model     core.ModelID
	typ       core.VehicleType
	variants  core.VariantPair
	pos       core.Position3D
	joinTime  time.Time
	joinFrame uint

	pulses    uint
	holdOut   int
	destroyed bool
}

// Snapshot is a copy of a vehicle's state, safe to keep after the lock is
// released.
type Snapshot struct {
	ID         core.ElementID   `json:"id" yaml:"id"`
	Model      core.ModelID     `json:"model" yaml:"model"`
	Type       string           `json:"type" yaml:"type"`
	Variants   core.VariantPair `json:"variants" yaml:"variants"`
	Position   core.Position3D  `json:"position" yaml:"position"`
	StreamedIn bool             `json:"streamedIn" yaml:"streamedIn"`
	JoinFrame  uint             `json:"joinFrame" yaml:"joinFrame"`
	Pulses     uint             `json:"pulses" yaml:"pulses"`
}

func (v *Vehicle) ID() core.ElementID        { return v.id }
func (v *Vehicle) Model() core.ModelID       { return v.model }
func (v *Vehicle) Position() core.Position3D { return v.pos }

// Type returns the category assigned on spawn.
func (v *Vehicle) Type() core.VehicleType { return v.typ }

// Variants returns the cosmetic variants assigned on spawn.
func (v *Vehicle) Variants() core.VariantPair { return v.variants }

// Record returns the storage form of the vehicle.
func (v *Vehicle) Record() core.VehicleRecord {
	return core.VehicleRecord{
		ID:        v.id,
		Model:     v.model,
		Type:      v.typ,
		Variants:  v.variants,
		JoinTime:  v.joinTime,
		JoinFrame: v.joinFrame,
	}
}

// StreamedInPulse records the vehicle's state for the current frame.
func (v *Vehicle) StreamedInPulse() {
	v.pulses++

	b := v.m.deps.Backend
	if b == nil {
		return
	}
	err := b.RecordVehicleState(core.VehicleState{
		VehicleID:    v.id,
		Time:         v.m.now(),
		CaptureFrame: v.m.deps.Session.Frame(),
		Position:     v.pos,
		StreamedIn:   true,
	})
	if err != nil {
		v.m.log.Warn("failed to record vehicle state", "id", v.id, "error", err)
	}
}

// StreamOutForABit streams the vehicle out and keeps the streaming pass from
// bringing it back until the next tick.
func (v *Vehicle) StreamOutForABit() {
	v.m.reg.OnStreamOut(v)
	v.holdOut = 1
}

// Destroy unregisters the vehicle and records its removal. Calling it twice is
// a no-op.
func (v *Vehicle) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	v.m.reg.Unregister(v)

	if b := v.m.deps.Backend; b != nil {
		if err := b.RecordRemoval(v.id, v.m.now()); err != nil {
			v.m.log.Warn("failed to record removal", "id", v.id, "error", err)
		}
	}
	v.m.log.Debug("vehicle destroyed", "id", v.id, "model", v.model)
}

func (v *Vehicle) snapshot() Snapshot {
	return Snapshot{
		ID:         v.id,
		Model:      v.model,
		Type:       v.typ.String(),
		Variants:   v.variants,
		Position:   v.pos,
		StreamedIn: v.m.reg.IsStreamedIn(v),
		JoinFrame:  v.joinFrame,
		Pulses:     v.pulses,
	}
}
