package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/fleet/pkg/core"
)

func TestIsValidModel_Range(t *testing.T) {
	for id := 0; id <= 0xFFFF; id++ {
		m := core.ModelID(id)
		want := id >= 400 && id <= 611 && id != 570
		if got := IsValidModel(m); got != want {
			t.Fatalf("IsValidModel(%d) = %v, want %v", id, got, want)
		}
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(431) // bus
	require.True(t, ok)
	assert.Equal(t, core.ModelID(431), d.ModelID)
	assert.Equal(t, uint8(8), d.MaxPassengers)
	assert.False(t, d.HasVariants())

	d, ok = Lookup(522)
	require.True(t, ok)
	assert.Equal(t, uint8(1), d.MaxPassengers)
	assert.Equal(t, uint8(4), d.VariantRange)
	assert.True(t, d.HasVariants())
}

func TestLookup_Invalid(t *testing.T) {
	for _, id := range []core.ModelID{0, 399, 570, 612, 0xFFFF} {
		_, ok := Lookup(id)
		assert.False(t, ok, "model %d", id)
	}
}

func TestModels(t *testing.T) {
	models := Models()
	require.Len(t, models, 211)
	assert.Equal(t, FirstModel, models[0].ModelID)
	assert.Equal(t, LastModel, models[len(models)-1].ModelID)
	for i := 1; i < len(models); i++ {
		assert.Less(t, models[i-1].ModelID, models[i].ModelID)
		assert.NotEqual(t, ExcludedModel, models[i].ModelID)
	}
}

func TestMaxPassengers(t *testing.T) {
	tests := []struct {
		model core.ModelID
		want  uint8
	}{
		{400, 3},
		{401, 1},
		{406, 0},
		{431, 8},
		{435, 255},
		{437, 8},
		{522, 1},
		{611, 255},
		{570, core.Unknown},
		{399, core.Unknown},
		{612, core.Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaxPassengers(tt.model), "model %d", tt.model)
	}
}

func TestVariantRange(t *testing.T) {
	assert.Equal(t, uint8(1), VariantRange(416))
	assert.Equal(t, uint8(5), VariantRange(435))
	assert.Equal(t, uint8(0), VariantRange(404))
	assert.Equal(t, NoVariants, VariantRange(400))
	assert.Equal(t, NoVariants, VariantRange(512))
	assert.Equal(t, NoVariants, VariantRange(1))
}

func TestAttributes(t *testing.T) {
	assert.True(t, HasTurret(432))   // rhino
	assert.True(t, HasTurret(601))   // swat van
	assert.True(t, HasSirens(601))   // swat van
	assert.True(t, HasSirens(407))   // fire truck
	assert.True(t, HasTurret(407))   // fire truck water cannon
	assert.True(t, HasTaxiLight(420)) // taxi
	assert.True(t, HasTaxiLight(438)) // cabbie
	assert.True(t, HasSearchLight(497))
	assert.True(t, HasLandingGears(519))
	assert.True(t, HasLandingGears(520))
	assert.True(t, HasAdjustableProperty(520))
	assert.True(t, HasAdjustableProperty(406))
	assert.True(t, HasSmokeTrail(512))
	assert.True(t, HasSmokeTrail(513))

	assert.False(t, HasTurret(400))
	assert.False(t, HasSirens(400))
	assert.False(t, HasSearchLight(570))
	assert.False(t, HasAttribute(9000, core.AttrTurret))
	assert.False(t, HasAttribute(432, 0))
}

func TestIsTrainModel(t *testing.T) {
	for _, id := range []core.ModelID{449, 537, 538, 569, 570, 590} {
		assert.True(t, IsTrainModel(id), "model %d", id)
	}
	assert.False(t, IsTrainModel(400))
	assert.False(t, IsTrainModel(0))
}

func TestAttributeNames(t *testing.T) {
	d, ok := Lookup(520) // hydra
	require.True(t, ok)
	assert.Equal(t, []string{"landingGear", "adjustableProperty"}, d.Attributes.Names())
}
