// pkg/core/vehicle.go
package core

import "time"

// VehicleType is the category a model is classified into.
type VehicleType uint8

const (
	VehicleNone VehicleType = iota
	VehicleCar
	VehicleBike
	VehiclePlane
	VehicleHeli
	VehicleBoat
	VehicleQuadBike
	VehicleBmx
	VehicleMonsterTruck
	VehicleTrailer
	VehicleTrain
)

var vehicleTypeNames = [...]string{
	VehicleNone:         "none",
	VehicleCar:          "car",
	VehicleBike:         "bike",
	VehiclePlane:        "plane",
	VehicleHeli:         "heli",
	VehicleBoat:         "boat",
	VehicleQuadBike:     "quadbike",
	VehicleBmx:          "bmx",
	VehicleMonsterTruck: "monstertruck",
	VehicleTrailer:      "trailer",
	VehicleTrain:        "train",
}

func (t VehicleType) String() string {
	if int(t) < len(vehicleTypeNames) {
		return vehicleTypeNames[t]
	}
	return "none"
}

// Seat is a physical boarding point, numbered like the simulation's door nodes.
type Seat uint8

const (
	SeatFrontRight Seat = 8
	SeatRearRight  Seat = 9
	SeatFrontLeft  Seat = 10
	SeatRearLeft   Seat = 11
	SeatInvalid    Seat = Unknown
)

func (s Seat) String() string {
	switch s {
	case SeatFrontLeft:
		return "frontLeft"
	case SeatFrontRight:
		return "frontRight"
	case SeatRearLeft:
		return "rearLeft"
	case SeatRearRight:
		return "rearRight"
	default:
		return "invalid"
	}
}

// Valid reports whether s names a boarding point.
func (s Seat) Valid() bool {
	return s != SeatInvalid
}

// VariantDefault marks a variant slot with no cosmetic variant applied.
const VariantDefault int8 = -1

// VariantPair holds the two cosmetic variant slots of a vehicle.
type VariantPair struct {
	Primary   int8 `json:"primary" yaml:"primary"`
	Secondary int8 `json:"secondary" yaml:"secondary"`
}

// Bytes returns the slots in wire form, where the default is 255.
func (v VariantPair) Bytes() (uint8, uint8) {
	return uint8(v.Primary), uint8(v.Secondary)
}

// VehicleRecord describes a registered vehicle for storage.
// ID is the ElementID assigned by the simulation.
type VehicleRecord struct {
	ID        ElementID
	Model     ModelID
	Type      VehicleType
	Variants  VariantPair
	JoinTime  time.Time
	JoinFrame uint
}

// VehicleState represents vehicle state at a point in time.
type VehicleState struct {
	VehicleID    ElementID
	Time         time.Time
	CaptureFrame uint
	Position     Position3D
	StreamedIn   bool
}
