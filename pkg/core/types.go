// pkg/core/types.go
package core

import "math"

// ModelID identifies a vehicle model template in the simulation.
type ModelID uint16

// ElementID is the simulation's identifier for a live entity.
type ElementID uint32

// Position3D represents a 3D coordinate in world units
type Position3D struct {
	X float64 `json:"x"` // easting
	Y float64 `json:"y"` // northing
	Z float64 `json:"z"` // elevation
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position3D) DistanceTo(o Position3D) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Unknown is the byte sentinel shared by passenger counts, variant ranges and seats.
const Unknown = 0xFF

// Attribute is a static capability flag of a vehicle model.
type Attribute uint32

const (
	AttrTurret             Attribute = 0x001
	AttrSirens             Attribute = 0x002
	AttrLandingGear        Attribute = 0x004
	AttrAdjustableProperty Attribute = 0x008
	AttrSmokeTrail         Attribute = 0x010
	AttrTaxiLight          Attribute = 0x020
	AttrSearchLight        Attribute = 0x040
)

var attributeNames = []struct {
	attr Attribute
	name string
}{
	{AttrTurret, "turret"},
	{AttrSirens, "sirens"},
	{AttrLandingGear, "landingGear"},
	{AttrAdjustableProperty, "adjustableProperty"},
	{AttrSmokeTrail, "smokeTrail"},
	{AttrTaxiLight, "taxiLight"},
	{AttrSearchLight, "searchLight"},
}

// Has reports whether every bit of flag is set.
func (a Attribute) Has(flag Attribute) bool {
	return flag != 0 && a&flag == flag
}

// Names lists the set flags in bit order.
func (a Attribute) Names() []string {
	names := make([]string, 0, len(attributeNames))
	for _, n := range attributeNames {
		if a.Has(n.attr) {
			names = append(names, n.name)
		}
	}
	return names
}
