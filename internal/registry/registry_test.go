package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/fleet/pkg/core"
)

// fakeVehicle stands in for a simulation vehicle. The registry it belongs to is
// told about its destruction the way the owning collection does it.
type fakeVehicle struct {
	id    core.ElementID
	model core.ModelID
	pos   core.Position3D

	reg       *Registry
	pulses    int
	onPulse   func()
	destroyed bool
	restreams int
}

func (v *fakeVehicle) ID() core.ElementID        { return v.id }
func (v *fakeVehicle) Model() core.ModelID       { return v.model }
func (v *fakeVehicle) Position() core.Position3D { return v.pos }

func (v *fakeVehicle) StreamedInPulse() {
	v.pulses++
	if v.onPulse != nil {
		v.onPulse()
	}
}

func (v *fakeVehicle) StreamOutForABit() {
	v.restreams++
	v.reg.OnStreamOut(v)
}

func (v *fakeVehicle) Destroy() {
	v.destroyed = true
	v.reg.Unregister(v)
}

type fakePool struct{ count int }

func (p *fakePool) VehicleCount() int { return p.count }

func newTestRegistry(t *testing.T, limit int) *Registry {
	t.Helper()
	r, err := New(Config{MaxVehicles: limit})
	require.NoError(t, err)
	return r
}

func newVehicle(r *Registry, id core.ElementID, pos core.Position3D) *fakeVehicle {
	return &fakeVehicle{id: id, model: 400, pos: pos, reg: r}
}

func TestNew_Defaults(t *testing.T) {
	r, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxVehicles, r.Limit())
	assert.Equal(t, 0, r.Count())
}

func TestRegister_RoundTrip(t *testing.T) {
	r := newTestRegistry(t, 10)
	before := r.Count()

	v := newVehicle(r, 1, core.Position3D{})
	require.True(t, r.Register(v, true))
	assert.Equal(t, before+1, r.Count())
	assert.True(t, r.Exists(v))
	assert.True(t, r.IsStreamedIn(v))

	r.Unregister(v)
	assert.Equal(t, before, r.Count())
	assert.Equal(t, 0, r.StreamedInCount())
	assert.False(t, r.Exists(v))
	assert.True(t, r.Verify())
}

func TestRegister_Refusals(t *testing.T) {
	r := newTestRegistry(t, 2)

	bad := &fakeVehicle{id: 1, model: 570, reg: r}
	assert.False(t, r.Register(bad, false), "excluded model")
	assert.False(t, r.Register(nil, false))

	v1 := newVehicle(r, 1, core.Position3D{})
	require.True(t, r.Register(v1, false))
	assert.False(t, r.Register(v1, false), "duplicate")

	v2 := newVehicle(r, 2, core.Position3D{})
	require.True(t, r.Register(v2, false))
	assert.True(t, r.IsLimitReached())

	v3 := newVehicle(r, 3, core.Position3D{})
	assert.False(t, r.Register(v3, false), "limit")
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, int64(3), r.Stats().Refused)

	r.Unregister(v1)
	assert.True(t, r.Register(v3, false))
}

func TestRegister_PoolLimit(t *testing.T) {
	pool := &fakePool{count: 64}
	r, err := New(Config{MaxVehicles: 64, Pool: pool})
	require.NoError(t, err)

	v := newVehicle(r, 1, core.Position3D{})
	assert.False(t, r.Register(v, false))

	pool.count = 63
	assert.True(t, r.Register(v, false))
}

func TestStreaming_Idempotent(t *testing.T) {
	r := newTestRegistry(t, 10)
	v := newVehicle(r, 1, core.Position3D{})
	require.True(t, r.Register(v, false))
	assert.Equal(t, 0, r.StreamedInCount())

	r.OnStreamIn(v)
	r.OnStreamIn(v)
	assert.Equal(t, 1, r.StreamedInCount())

	r.OnStreamOut(v)
	r.OnStreamOut(v)
	assert.Equal(t, 0, r.StreamedInCount())
	assert.Equal(t, 1, r.Count())
}

func TestStreamIn_Unregistered(t *testing.T) {
	r := newTestRegistry(t, 10)
	v := newVehicle(r, 1, core.Position3D{})

	r.OnStreamIn(v)
	assert.Equal(t, 0, r.StreamedInCount())
	assert.True(t, r.Verify())
}

func TestTick_PulsesStreamedIn(t *testing.T) {
	r := newTestRegistry(t, 10)
	in := newVehicle(r, 1, core.Position3D{})
	out := newVehicle(r, 2, core.Position3D{})
	require.True(t, r.Register(in, true))
	require.True(t, r.Register(out, false))

	r.Tick()
	r.Tick()

	assert.Equal(t, 2, in.pulses)
	assert.Equal(t, 0, out.pulses)
	assert.Equal(t, int64(2), r.Stats().Ticks)
}

func TestTick_StreamOutDuringPulse(t *testing.T) {
	r := newTestRegistry(t, 10)
	a := newVehicle(r, 1, core.Position3D{})
	b := newVehicle(r, 2, core.Position3D{})
	require.True(t, r.Register(a, true))
	require.True(t, r.Register(b, true))

	a.onPulse = func() { r.OnStreamOut(a) }

	assert.NotPanics(t, r.Tick)
	assert.Equal(t, 1, a.pulses, "visited once")
	assert.Equal(t, 1, b.pulses)
	assert.False(t, r.IsStreamedIn(a))

	r.Tick()
	assert.Equal(t, 1, a.pulses, "streamed out vehicles are not pulsed next tick")
	assert.Equal(t, 2, b.pulses)
}

func TestTick_StreamInDuringPulseIsDeferred(t *testing.T) {
	r := newTestRegistry(t, 10)
	a := newVehicle(r, 1, core.Position3D{})
	b := newVehicle(r, 2, core.Position3D{})
	require.True(t, r.Register(a, true))
	require.True(t, r.Register(b, false))

	a.onPulse = func() { r.OnStreamIn(b) }

	r.Tick()
	assert.Equal(t, 0, b.pulses)
	assert.True(t, r.IsStreamedIn(b))

	r.Tick()
	assert.Equal(t, 1, b.pulses)
}

func TestTick_DestroyDuringPulse(t *testing.T) {
	r := newTestRegistry(t, 10)
	a := newVehicle(r, 1, core.Position3D{})
	b := newVehicle(r, 2, core.Position3D{})
	c := newVehicle(r, 3, core.Position3D{})
	require.True(t, r.Register(a, true))
	require.True(t, r.Register(b, true))
	require.True(t, r.Register(c, true))

	// a destroys b, which comes later in the same tick
	a.onPulse = func() { b.Destroy() }

	assert.NotPanics(t, r.Tick)
	assert.Equal(t, 1, a.pulses)
	assert.Equal(t, 0, b.pulses)
	assert.Equal(t, 1, c.pulses)
	assert.Equal(t, 2, r.Count())
	assert.True(t, r.Verify())
}

func TestFindNearest(t *testing.T) {
	r := newTestRegistry(t, 10)
	far := newVehicle(r, 1, core.Position3D{X: 100})
	near := newVehicle(r, 2, core.Position3D{X: 3, Y: 4})
	tie := newVehicle(r, 3, core.Position3D{X: -3, Y: -4})
	require.True(t, r.Register(far, false))
	require.True(t, r.Register(near, false))
	require.True(t, r.Register(tie, false))

	got, ok := r.FindNearest(core.Position3D{}, 50)
	require.True(t, ok)
	assert.Same(t, near, got, "ties go to the first registered")

	got, ok = r.FindNearest(core.Position3D{}, 5)
	require.True(t, ok, "radius is inclusive")
	assert.Same(t, near, got)

	_, ok = r.FindNearest(core.Position3D{}, 4.99)
	assert.False(t, ok)

	got, ok = r.FindNearest(core.Position3D{X: 90}, 50)
	require.True(t, ok)
	assert.Same(t, far, got)
}

func TestClear(t *testing.T) {
	r := newTestRegistry(t, 10)
	vehicles := make([]*fakeVehicle, 0, 5)
	for i := 1; i <= 5; i++ {
		v := newVehicle(r, core.ElementID(i), core.Position3D{X: float64(i)})
		require.True(t, r.Register(v, i%2 == 0))
		vehicles = append(vehicles, v)
	}

	assert.NotPanics(t, r.Clear)

	for _, v := range vehicles {
		assert.True(t, v.destroyed)
	}
	assert.Equal(t, 0, r.Count())
	assert.Equal(t, 0, r.StreamedInCount())
	assert.Empty(t, r.Vehicles())
	_, ok := r.FindNearest(core.Position3D{}, 1000)
	assert.False(t, ok)

	v := newVehicle(r, 1, core.Position3D{})
	assert.True(t, r.Register(v, true))
	r.Unregister(v)
	assert.Equal(t, 0, r.Count(), "removal is re-enabled after clear")
}

func TestRestreamModel(t *testing.T) {
	r := newTestRegistry(t, 10)
	a := newVehicle(r, 1, core.Position3D{})
	b := newVehicle(r, 2, core.Position3D{})
	other := &fakeVehicle{id: 3, model: 522, reg: r}
	idle := newVehicle(r, 4, core.Position3D{})
	require.True(t, r.Register(a, true))
	require.True(t, r.Register(b, true))
	require.True(t, r.Register(other, true))
	require.True(t, r.Register(idle, false))

	assert.Equal(t, 2, r.RestreamModel(400))
	assert.Equal(t, 1, a.restreams)
	assert.Equal(t, 1, b.restreams)
	assert.Equal(t, 0, other.restreams)
	assert.Equal(t, 0, idle.restreams)
	assert.Equal(t, 1, r.StreamedInCount())
}

func TestGetAndVehicles(t *testing.T) {
	r := newTestRegistry(t, 10)
	a := newVehicle(r, 7, core.Position3D{})
	b := newVehicle(r, 9, core.Position3D{})
	require.True(t, r.Register(a, true))
	require.True(t, r.Register(b, false))

	got, ok := r.Get(9)
	require.True(t, ok)
	assert.Same(t, b, got)

	_, ok = r.Get(8)
	assert.False(t, ok)

	list := r.Vehicles()
	require.Len(t, list, 2)
	assert.Same(t, a, list[0])
	assert.Same(t, b, list[1])

	// the copy does not alias the registry
	list[0] = nil
	assert.Same(t, a, r.Vehicles()[0])

	assert.Len(t, r.StreamedIn(), 1)
}

func TestUnregister_Stale(t *testing.T) {
	r := newTestRegistry(t, 10)
	a := newVehicle(r, 1, core.Position3D{})
	require.True(t, r.Register(a, true))

	// a different instance reusing the id is not the registered one
	imposter := newVehicle(r, 1, core.Position3D{})
	r.Unregister(imposter)
	assert.Equal(t, 1, r.Count())
	assert.True(t, r.Exists(a))
	assert.False(t, r.Exists(imposter))
}
