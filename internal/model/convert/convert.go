// Package convert maps core and catalog values onto GORM models.
package convert

import (
	"encoding/json"

	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/internal/geo"
	"github.com/OCAP2/fleet/internal/model"
	"github.com/OCAP2/fleet/pkg/core"
	"gorm.io/datatypes"
)

// attributesToJSON converts an attribute set to a JSON name list.
func attributesToJSON(a core.Attribute) datatypes.JSON {
	names := a.Names()
	if len(names) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(names)
	return datatypes.JSON(data)
}

// CatalogToEntry converts a catalog descriptor to a GORM model.CatalogEntry.
func CatalogToEntry(d catalog.Descriptor) model.CatalogEntry {
	return model.CatalogEntry{
		ModelID:       uint16(d.ModelID),
		MaxPassengers: d.MaxPassengers,
		VariantRange:  d.VariantRange,
		Attributes:    attributesToJSON(d.Attributes),
	}
}

// CoreToVehicle converts a core.VehicleRecord to a GORM model.Vehicle.
// core.VehicleRecord.ID maps to Vehicle.ElementID.
func CoreToVehicle(v core.VehicleRecord) model.Vehicle {
	return model.Vehicle{
		ElementID:        uint32(v.ID),
		ModelID:          uint16(v.Model),
		VehicleType:      v.Type.String(),
		PrimaryVariant:   v.Variants.Primary,
		SecondaryVariant: v.Variants.Secondary,
		JoinTime:         v.JoinTime,
		JoinFrame:        v.JoinFrame,
	}
}

// CoreToVehicleState converts a core.VehicleState to a GORM model.VehicleState.
func CoreToVehicleState(s core.VehicleState) model.VehicleState {
	return model.VehicleState{
		Time:             s.Time,
		CaptureFrame:     s.CaptureFrame,
		VehicleElementID: uint32(s.VehicleID),
		Position:         geo.PointFromPosition(s.Position),
		Elevation:        s.Position.Z,
		StreamedIn:       s.StreamedIn,
	}
}

// VehicleStateToCore converts a stored state back to its core form.
func VehicleStateToCore(s model.VehicleState) core.VehicleState {
	return core.VehicleState{
		VehicleID:    core.ElementID(s.VehicleElementID),
		Time:         s.Time,
		CaptureFrame: s.CaptureFrame,
		Position:     geo.PositionFromPoint(s.Position),
		StreamedIn:   s.StreamedIn,
	}
}
