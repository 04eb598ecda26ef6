package fleet

import (
	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/pkg/core"
)

// ModelInfo describes everything the fleet knows about a model.
type ModelInfo struct {
	Model          core.ModelID `json:"model" yaml:"model"`
	Type           string       `json:"type" yaml:"type"`
	MaxPassengers  uint8        `json:"maxPassengers" yaml:"maxPassengers"`
	Seats          int          `json:"seats" yaml:"seats"`
	VariantRange   uint8        `json:"variantRange" yaml:"variantRange"`
	Attributes     []string     `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	HasDoors       bool         `json:"hasDoors" yaml:"hasDoors"`
	HasDamageModel bool         `json:"hasDamageModel" yaml:"hasDamageModel"`
	IsTrain        bool         `json:"isTrain" yaml:"isTrain"`
}

// Info returns the description of model, or false for ids outside the catalog.
func (m *Manager) Info(model core.ModelID) (ModelInfo, bool) {
	d, ok := catalog.Lookup(model)
	if !ok {
		return ModelInfo{}, false
	}
	c := m.deps.Classifier
	return ModelInfo{
		Model:          model,
		Type:           c.ClassifyModel(model).String(),
		MaxPassengers:  d.MaxPassengers,
		Seats:          m.deps.Seats.SeatCount(model),
		VariantRange:   d.VariantRange,
		Attributes:     d.Attributes.Names(),
		HasDoors:       c.HasDoors(model),
		HasDamageModel: c.HasDamageModel(model),
		IsTrain:        catalog.IsTrainModel(model),
	}, true
}

// Models describes every model in the catalog in id order.
func (m *Manager) Models() []ModelInfo {
	descs := catalog.Models()
	out := make([]ModelInfo, 0, len(descs))
	for _, d := range descs {
		if info, ok := m.Info(d.ModelID); ok {
			out = append(out, info)
		}
	}
	return out
}
