package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// DatabaseModels lists every table of the snapshot schema, in migration order.
var DatabaseModels = []any{
	&CatalogEntry{},
	&Vehicle{},
	&VehicleState{},
}

// CatalogEntry is the static description of one vehicle model.
type CatalogEntry struct {
	ModelID       uint16         `json:"model" gorm:"primarykey;autoIncrement:false"`
	MaxPassengers uint8          `json:"maxPassengers"`
	VariantRange  uint8          `json:"variantRange"` // 255 when the model has no variants
	Attributes    datatypes.JSON `json:"attributes"`   // attribute names, e.g. ["turret","sirens"]
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (*CatalogEntry) TableName() string {
	return "catalog_entries"
}

// Vehicle is one registration of a vehicle element. Element ids may be reused
// by the simulation once the previous vehicle is removed.
type Vehicle struct {
	ID               uint         `json:"id" gorm:"primarykey;autoIncrement;"`
	ElementID        uint32       `json:"elementId" gorm:"index:idx_vehicle_element_id"`
	ModelID          uint16       `json:"model" gorm:"index:idx_vehicle_model_id"`
	VehicleType      string       `json:"type" gorm:"size:16"`
	PrimaryVariant   int8         `json:"primaryVariant"`
	SecondaryVariant int8         `json:"secondaryVariant"`
	JoinTime         time.Time    `json:"joinTime"`
	JoinFrame        uint         `json:"joinFrame"`
	RemovedAt        sql.NullTime `json:"removedAt"`
}

func (*Vehicle) TableName() string {
	return "vehicles"
}

// VehicleState is a sampled position of a vehicle.
type VehicleState struct {
	ID               uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	Time             time.Time  `json:"time"`
	CaptureFrame     uint       `json:"captureFrame" gorm:"index:idx_vehiclestate_capture_frame"`
	VehicleElementID uint32     `json:"vehicleElementId" gorm:"index:idx_vehiclestate_element_id"`
	Position         geom.Point `json:"position"`  // XYZ point in world units
	Elevation        float64    `json:"elevation"` // Z, duplicated for plain SQL queries
	StreamedIn       bool       `json:"streamedIn"`
}

func (*VehicleState) TableName() string {
	return "vehicle_states"
}
