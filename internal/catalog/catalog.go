// Package catalog holds the immutable per-model data of every vehicle model the
// simulation can spawn: passenger capacity, capability attributes and the range
// of cosmetic variants. Model ids come from untrusted script and network input,
// so every query accepts any id and answers with a sentinel when it is invalid.
package catalog

import (
	"fmt"

	"github.com/OCAP2/fleet/pkg/core"
)

const (
	// FirstModel is the lowest vehicle model id.
	FirstModel core.ModelID = 400
	// LastModel is the highest vehicle model id.
	LastModel core.ModelID = 611
	// ExcludedModel is inside the range but does not name a spawnable vehicle.
	ExcludedModel core.ModelID = 570

	modelCount = int(LastModel-FirstModel) + 1
)

// NoVariants is the VariantRange of a model without cosmetic variants.
const NoVariants uint8 = core.Unknown

// Descriptor is the static data of one model.
type Descriptor struct {
	ModelID       core.ModelID   `json:"model" yaml:"model"`
	MaxPassengers uint8          `json:"maxPassengers" yaml:"maxPassengers"`
	Attributes    core.Attribute `json:"attributes" yaml:"attributes"`
	VariantRange  uint8          `json:"variantRange" yaml:"variantRange"`
}

// HasVariants reports whether the model has cosmetic variants.
func (d Descriptor) HasVariants() bool {
	return d.VariantRange != NoVariants
}

var descriptors [modelCount]Descriptor

func init() {
	if len(maxPassengers) != modelCount || len(attributes) != modelCount {
		panic(fmt.Sprintf("catalog: table size mismatch, want %d entries", modelCount))
	}

	for i := range descriptors {
		id := FirstModel + core.ModelID(i)
		descriptors[i] = Descriptor{
			ModelID:       id,
			MaxPassengers: maxPassengers[i],
			Attributes:    core.Attribute(attributes[i]),
			VariantRange:  NoVariants,
		}
	}
	for id, n := range variantRanges {
		if core.ModelID(id) < FirstModel || core.ModelID(id) > LastModel {
			panic(fmt.Sprintf("catalog: variant range for unknown model %d", id))
		}
		descriptors[id-uint16(FirstModel)].VariantRange = n
	}
}

// IsValidModel reports whether id names a spawnable vehicle model.
func IsValidModel(id core.ModelID) bool {
	return id >= FirstModel && id <= LastModel && id != ExcludedModel
}

// Lookup returns the descriptor of a valid model.
func Lookup(id core.ModelID) (Descriptor, bool) {
	if !IsValidModel(id) {
		return Descriptor{}, false
	}
	return descriptors[id-FirstModel], true
}

// Models returns the descriptors of every valid model in id order.
func Models() []Descriptor {
	out := make([]Descriptor, 0, modelCount-1)
	for _, d := range descriptors {
		if IsValidModel(d.ModelID) {
			out = append(out, d)
		}
	}
	return out
}

// MaxPassengers returns the passenger capacity, or 0xFF for invalid ids.
func MaxPassengers(id core.ModelID) uint8 {
	if d, ok := Lookup(id); ok {
		return d.MaxPassengers
	}
	return core.Unknown
}

// VariantRange returns the highest variant index, or NoVariants.
func VariantRange(id core.ModelID) uint8 {
	if d, ok := Lookup(id); ok {
		return d.VariantRange
	}
	return NoVariants
}

// HasAttribute reports whether a valid model carries the given flag.
func HasAttribute(id core.ModelID, attr core.Attribute) bool {
	d, ok := Lookup(id)
	return ok && d.Attributes.Has(attr)
}

func HasTurret(id core.ModelID) bool { return HasAttribute(id, core.AttrTurret) }
func HasSirens(id core.ModelID) bool { return HasAttribute(id, core.AttrSirens) }
func HasLandingGears(id core.ModelID) bool { return HasAttribute(id, core.AttrLandingGear) }
func HasSmokeTrail(id core.ModelID) bool { return HasAttribute(id, core.AttrSmokeTrail) }
func HasTaxiLight(id core.ModelID) bool { return HasAttribute(id, core.AttrTaxiLight) }
func HasSearchLight(id core.ModelID) bool { return HasAttribute(id, core.AttrSearchLight) }

func HasAdjustableProperty(id core.ModelID) bool {
	return HasAttribute(id, core.AttrAdjustableProperty)
}

// IsTrainModel reports whether id is a rail vehicle. It does not require the
// id to be valid: the excluded carriage slot is still a train.
func IsTrainModel(id core.ModelID) bool {
	return trainModels[uint16(id)]
}
