// Package modelinfo provides model shape information from the stock vehicle
// definitions, for use where no running simulation is available (tools, tests,
// the offline simulator).
package modelinfo

import (
	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/internal/classify"
	"github.com/OCAP2/fleet/pkg/core"
)

// Info is the shape of one model. Exactly one predicate is true.
type Info struct {
	kind core.VehicleType
}

func (i Info) IsCar() bool          { return i.kind == core.VehicleCar }
func (i Info) IsBike() bool         { return i.kind == core.VehicleBike }
func (i Info) IsPlane() bool        { return i.kind == core.VehiclePlane }
func (i Info) IsHeli() bool         { return i.kind == core.VehicleHeli }
func (i Info) IsBoat() bool         { return i.kind == core.VehicleBoat }
func (i Info) IsQuadBike() bool     { return i.kind == core.VehicleQuadBike }
func (i Info) IsBmx() bool          { return i.kind == core.VehicleBmx }
func (i Info) IsMonsterTruck() bool { return i.kind == core.VehicleMonsterTruck }
func (i Info) IsTrailer() bool      { return i.kind == core.VehicleTrailer }
func (i Info) IsTrain() bool        { return i.kind == core.VehicleTrain }

// Models not listed here are cars.
var kinds = map[core.ModelID]core.VehicleType{
	// bikes
	448: core.VehicleBike, 461: core.VehicleBike, 462: core.VehicleBike,
	463: core.VehicleBike, 468: core.VehicleBike, 521: core.VehicleBike,
	522: core.VehicleBike, 523: core.VehicleBike, 581: core.VehicleBike,
	586: core.VehicleBike,

	// bicycles
	481: core.VehicleBmx, 509: core.VehicleBmx, 510: core.VehicleBmx,

	471: core.VehicleQuadBike,

	// boats
	430: core.VehicleBoat, 446: core.VehicleBoat, 452: core.VehicleBoat,
	453: core.VehicleBoat, 454: core.VehicleBoat, 472: core.VehicleBoat,
	473: core.VehicleBoat, 484: core.VehicleBoat, 493: core.VehicleBoat,
	595: core.VehicleBoat,

	// helicopters
	417: core.VehicleHeli, 425: core.VehicleHeli, 447: core.VehicleHeli,
	465: core.VehicleHeli, 469: core.VehicleHeli, 487: core.VehicleHeli,
	488: core.VehicleHeli, 497: core.VehicleHeli, 501: core.VehicleHeli,
	548: core.VehicleHeli, 563: core.VehicleHeli,

	// planes
	460: core.VehiclePlane, 464: core.VehiclePlane, 476: core.VehiclePlane,
	511: core.VehiclePlane, 512: core.VehiclePlane, 513: core.VehiclePlane,
	519: core.VehiclePlane, 520: core.VehiclePlane, 539: core.VehiclePlane,
	553: core.VehiclePlane, 577: core.VehiclePlane, 592: core.VehiclePlane,
	593: core.VehiclePlane,

	// monster trucks
	406: core.VehicleMonsterTruck, 444: core.VehicleMonsterTruck,
	556: core.VehicleMonsterTruck, 557: core.VehicleMonsterTruck,
	573: core.VehicleMonsterTruck,

	// trailers
	435: core.VehicleTrailer, 450: core.VehicleTrailer, 584: core.VehicleTrailer,
	591: core.VehicleTrailer, 606: core.VehicleTrailer, 607: core.VehicleTrailer,
	608: core.VehicleTrailer, 610: core.VehicleTrailer, 611: core.VehicleTrailer,

	// trains
	449: core.VehicleTrain, 537: core.VehicleTrain, 538: core.VehicleTrain,
	569: core.VehicleTrain, 570: core.VehicleTrain, 590: core.VehicleTrain,
}

// Static answers shape queries from the stock vehicle definitions.
type Static struct{}

var _ classify.ModelInfoProvider = Static{}

// ModelInfo returns the shape of id. Ids outside the vehicle range are unknown.
func (Static) ModelInfo(id core.ModelID) (classify.ModelInfo, bool) {
	if id < catalog.FirstModel || id > catalog.LastModel {
		return nil, false
	}
	kind, ok := kinds[id]
	if !ok {
		kind = core.VehicleCar
	}
	return Info{kind: kind}, true
}
