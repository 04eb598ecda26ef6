package geo

import (
	"testing"

	"github.com/OCAP2/fleet/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionFromString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want core.Position3D
	}{
		{"with elevation", "100.5,200.25,50.0", core.Position3D{X: 100.5, Y: 200.25, Z: 50}},
		{"without elevation", "100.5,200.25", core.Position3D{X: 100.5, Y: 200.25}},
		{"negative", "-100.5,-200.25,-50", core.Position3D{X: -100.5, Y: -200.25, Z: -50}},
		{"bracketed", "[1, 2, 3]", core.Position3D{X: 1, Y: 2, Z: 3}},
		{"extra components ignored", "1,2,3,4", core.Position3D{X: 1, Y: 2, Z: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PositionFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionFromString_Invalid(t *testing.T) {
	for _, in := range []string{"", "100", "abc,200", "100,xyz", "1,2,zz"} {
		_, err := PositionFromString(in)
		assert.ErrorIs(t, err, ErrInvalidCoordinates, in)
	}
}

func TestPointRoundTrip(t *testing.T) {
	p := core.Position3D{X: 2493.1, Y: -1671.4, Z: 13.3}
	pt := PointFromPosition(p)

	c, ok := pt.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 2493.1, c.X)
	assert.Equal(t, -1671.4, c.Y)
	assert.Equal(t, 13.3, c.Z)

	assert.Equal(t, p, PositionFromPoint(pt))
}

func TestDistance3D(t *testing.T) {
	a := PointFromPosition(core.Position3D{X: 1, Y: 2, Z: 3})
	b := PointFromPosition(core.Position3D{X: 4, Y: 6, Z: 15})

	assert.InDelta(t, 13.0, Distance3D(a, b), 1e-9)
	assert.Zero(t, Distance3D(a, a))
}
