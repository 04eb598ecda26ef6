// Package classify resolves vehicle model ids to vehicle categories.
package classify

import (
	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/pkg/core"
)

// ModelInfo answers shape questions about one model.
type ModelInfo interface {
	IsCar() bool
	IsBike() bool
	IsPlane() bool
	IsHeli() bool
	IsBoat() bool
	IsQuadBike() bool
	IsBmx() bool
	IsMonsterTruck() bool
	IsTrailer() bool
	IsTrain() bool
}

// ModelInfoProvider is implemented by the simulation.
type ModelInfoProvider interface {
	ModelInfo(id core.ModelID) (ModelInfo, bool)
}

// Classifier maps model ids to categories using the simulation's model info.
type Classifier struct {
	provider ModelInfoProvider
}

// New creates a Classifier backed by provider.
func New(provider ModelInfoProvider) *Classifier {
	return &Classifier{provider: provider}
}

// Several models satisfy more than one predicate; the first match wins and the
// order below must not change.
var predicates = []struct {
	match func(ModelInfo) bool
	typ   core.VehicleType
}{
	{ModelInfo.IsCar, core.VehicleCar},
	{ModelInfo.IsBike, core.VehicleBike},
	{ModelInfo.IsPlane, core.VehiclePlane},
	{ModelInfo.IsHeli, core.VehicleHeli},
	{ModelInfo.IsBoat, core.VehicleBoat},
	{ModelInfo.IsQuadBike, core.VehicleQuadBike},
	{ModelInfo.IsBmx, core.VehicleBmx},
	{ModelInfo.IsMonsterTruck, core.VehicleMonsterTruck},
	{ModelInfo.IsTrailer, core.VehicleTrailer},
	{ModelInfo.IsTrain, core.VehicleTrain},
}

// ClassifyModel returns the category of id, or VehicleNone for invalid ids and
// models the simulation has no info for.
func (c *Classifier) ClassifyModel(id core.ModelID) core.VehicleType {
	if !catalog.IsValidModel(id) || c.provider == nil {
		return core.VehicleNone
	}

	info, ok := c.provider.ModelInfo(id)
	if !ok || info == nil {
		return core.VehicleNone
	}

	for _, p := range predicates {
		if p.match(info) {
			return p.typ
		}
	}
	return core.VehicleNone
}

// HasDamageModelSupport reports whether vehicles of the category track
// door and panel damage.
func HasDamageModelSupport(t core.VehicleType) bool {
	switch t {
	case core.VehicleTrailer,
		core.VehicleMonsterTruck,
		core.VehicleQuadBike,
		core.VehicleHeli,
		core.VehiclePlane,
		core.VehicleCar:
		return true
	default:
		return false
	}
}

// HasDamageModel reports whether the category of id has damage model support.
func (c *Classifier) HasDamageModel(id core.ModelID) bool {
	return HasDamageModelSupport(c.ClassifyModel(id))
}

// Models with a damage model but no openable doors.
var doorless = map[core.ModelID]bool{
	424: true, // bf injection
	441: true, // rc bandit
	457: true, // caddy
	465: true, // rc raider
	485: true, // baggage
	486: true, // dozer
	501: true, // rc goblin
	530: true, // forklift
	531: true, // tractor
	564: true, // rc tiger
	568: true, // bandito
	571: true, // kart
	572: true, // mower
	594: true, // rc cam
}

// HasDoors reports whether id has doors that can open or be damaged.
func (c *Classifier) HasDoors(id core.ModelID) bool {
	return c.HasDamageModel(id) && !doorless[id]
}
