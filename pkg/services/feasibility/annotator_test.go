package feasibility

import (
	"testing"

	"github.com/de-tools/power-quote/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakdownWith(solarMW, windMW float64) *domain.EquipmentBreakdown {
	b := &domain.EquipmentBreakdown{}
	if solarMW > 0 {
		b.Solar = &domain.CategoryLine{Category: domain.CategorySolar, TotalCost: 1000}
	}
	if windMW > 0 {
		b.Wind = &domain.CategoryLine{Category: domain.CategoryWind, TotalCost: 1000}
	}
	return b
}

func TestAnnotator_SmallRooftopSolarIsFeasible(t *testing.T) {
	a := NewAnnotator()
	req := domain.SizingRequest{SolarMW: 1, IndustryTag: "warehouse"}
	b := breakdownWith(1, 0)

	a.Annotate(b, req)

	require.NotNil(t, b.Solar.Feasibility)
	note := b.Solar.Feasibility
	assert.True(t, note.IsFeasible)
	assert.Equal(t, "rooftop", note.Mount)
	assert.Empty(t, note.Suggestions)
}

func TestAnnotator_OversizedRooftopSolarFlagged(t *testing.T) {
	a := NewAnnotator()
	// 2 MW rooftop on a retail site: 5 acres needed, 3 plausible.
	req := domain.SizingRequest{SolarMW: 2, IndustryTag: "retail"}
	b := breakdownWith(2, 0)

	a.Annotate(b, req)

	note := b.Solar.Feasibility
	require.NotNil(t, note)
	assert.False(t, note.IsFeasible)
	assert.Equal(t, "rooftop", note.Mount)
	assert.Greater(t, note.RequiredAreaAcres, note.MaxAreaAcres)
	assert.NotEmpty(t, note.Suggestions)
	assert.Contains(t, note.Suggestions, "increase storage duration instead of generation capacity")
}

func TestAnnotator_LargeSolarUsesGroundMount(t *testing.T) {
	a := NewAnnotator()
	req := domain.SizingRequest{SolarMW: 10, IndustryTag: "agriculture"}
	b := breakdownWith(10, 0)

	a.Annotate(b, req)

	note := b.Solar.Feasibility
	require.NotNil(t, note)
	assert.Equal(t, "ground", note.Mount)
	assert.True(t, note.IsFeasible, "10 MW ground-mount fits on agricultural land")
}

func TestAnnotator_UnknownIndustryUsesDefaultRule(t *testing.T) {
	a := NewAnnotator()
	req := domain.SizingRequest{SolarMW: 1.5, IndustryTag: "something-new"}
	b := breakdownWith(1.5, 0)

	a.Annotate(b, req)

	note := b.Solar.Feasibility
	require.NotNil(t, note)
	assert.Equal(t, defaultRule.MaxRoofAcres, note.MaxAreaAcres)
}

func TestAnnotator_WindPadArea(t *testing.T) {
	a := NewAnnotator()
	req := domain.SizingRequest{WindMW: 4, IndustryTag: "hospital"}
	b := breakdownWith(0, 4)

	a.Annotate(b, req)

	note := b.Wind.Feasibility
	require.NotNil(t, note)
	assert.Equal(t, 4*WindPadAcresPerMW, note.RequiredAreaAcres)
	assert.True(t, note.IsFeasible)
}

func TestAnnotator_NeverChangesCosts(t *testing.T) {
	a := NewAnnotator()
	req := domain.SizingRequest{SolarMW: 50, WindMW: 60, IndustryTag: "retail"}
	b := breakdownWith(50, 60)

	a.Annotate(b, req)

	assert.Equal(t, 1000.0, b.Solar.TotalCost)
	assert.Equal(t, 1000.0, b.Wind.TotalCost)
	assert.False(t, b.Solar.Feasibility.IsFeasible)
	assert.False(t, b.Wind.Feasibility.IsFeasible)
}

func TestAnnotator_SkipsAbsentLines(t *testing.T) {
	a := NewAnnotator()
	req := domain.SizingRequest{StoragePowerMW: 2, DurationHours: 4}
	b := &domain.EquipmentBreakdown{
		Storage: &domain.CategoryLine{Category: domain.CategoryStorage},
	}

	a.Annotate(b, req)

	assert.Nil(t, b.Storage.Feasibility)
}
