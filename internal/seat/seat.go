// Package seat maps passenger slot indices to the boarding points of a vehicle.
package seat

import (
	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/pkg/core"
)

// Classifier is the part of classify.Classifier the resolver needs.
type Classifier interface {
	ClassifyModel(id core.ModelID) core.VehicleType
}

// Resolver converts (model, passenger index) pairs to seats.
type Resolver struct {
	classifier Classifier
}

// NewResolver creates a Resolver. Bikes are told apart from cars through c.
func NewResolver(c Classifier) *Resolver {
	return &Resolver{classifier: c}
}

// ResolveSeat returns the seat for passenger index of model id, or
// core.SeatInvalid. Index 0 is the driver.
func (r *Resolver) ResolveSeat(id core.ModelID, index uint8) core.Seat {
	switch catalog.MaxPassengers(id) {
	case 0, core.Unknown:
		if index == 0 {
			return core.SeatFrontLeft
		}
		return core.SeatInvalid

	case 1:
		bike := r.isBike(id)
		switch {
		case index == 0:
			return core.SeatFrontLeft
		case index == 1 && bike:
			// bike passengers sit on a rear seat
			return core.SeatRearRight
		case index == 1:
			return core.SeatFrontRight
		case index == 2 && bike:
			return core.SeatRearLeft
		case index == 3 && bike:
			return core.SeatRearRight
		}
		return core.SeatInvalid

	case 3:
		switch index {
		case 0:
			return core.SeatFrontLeft
		case 1:
			return core.SeatFrontRight
		case 2:
			return core.SeatRearLeft
		case 3:
			return core.SeatRearRight
		}
		return core.SeatInvalid

	case 8:
		// buses and trains board every passenger through one door
		if index == 0 {
			return core.SeatFrontLeft
		}
		if index <= 8 {
			return core.SeatFrontRight
		}
		return core.SeatInvalid
	}

	return core.SeatInvalid
}

// SeatCount returns how many passenger indices of id resolve to a seat,
// counting the driver.
func (r *Resolver) SeatCount(id core.ModelID) int {
	n := 0
	for i := 0; i <= core.Unknown; i++ {
		if r.ResolveSeat(id, uint8(i)).Valid() {
			n++
		}
	}
	return n
}

func (r *Resolver) isBike(id core.ModelID) bool {
	if r.classifier == nil {
		return false
	}
	t := r.classifier.ClassifyModel(id)
	return t == core.VehicleBike || t == core.VehicleQuadBike
}
