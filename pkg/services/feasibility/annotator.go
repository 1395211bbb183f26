package feasibility

import (
	"fmt"

	"github.com/de-tools/power-quote/pkg/models/domain"
)

// Area constants for generation assets. Solar below the rooftop threshold is
// assumed roof-mounted; everything else is ground-mount.
const (
	SolarRooftopAcresPerMW = 2.5
	SolarGroundAcresPerMW  = 5.0
	WindPadAcresPerMW      = 0.75

	// Above this capacity a rooftop install stops being plausible.
	RooftopMaxMW = 2.0
)

// industryRule caps the plausible site area for a facility type. Zero means
// "no opinion"; the default rule applies to unknown industry tags.
type industryRule struct {
	MaxRoofAcres   float64
	MaxGroundAcres float64
}

var industryRules = map[string]industryRule{
	"manufacturing": {MaxRoofAcres: 12, MaxGroundAcres: 30},
	"warehouse":     {MaxRoofAcres: 20, MaxGroundAcres: 25},
	"cold-storage":  {MaxRoofAcres: 10, MaxGroundAcres: 15},
	"data-center":   {MaxRoofAcres: 6, MaxGroundAcres: 20},
	"hospital":      {MaxRoofAcres: 4, MaxGroundAcres: 8},
	"retail":        {MaxRoofAcres: 3, MaxGroundAcres: 5},
	"agriculture":   {MaxRoofAcres: 5, MaxGroundAcres: 200},
	"ev-fleet":      {MaxRoofAcres: 4, MaxGroundAcres: 12},
}

var defaultRule = industryRule{MaxRoofAcres: 8, MaxGroundAcres: 40}

var solarSuggestions = []string{
	"increase storage duration instead of generation capacity",
	"consider an off-site PPA for the excess capacity",
	"use canopy structures over parking areas",
	"shift flexible demand to reduce the required capacity",
}

var windSuggestions = []string{
	"increase storage duration instead of generation capacity",
	"consider an off-site PPA for the excess capacity",
	"shift flexible demand to reduce the required capacity",
}

// Annotator applies the per-industry area-ceiling rules table to the
// generation-asset lines of a breakdown. Advisory only: it sets feasibility
// notes and never changes a number.
type Annotator struct {
	rules map[string]industryRule
}

func NewAnnotator() *Annotator {
	return &Annotator{rules: industryRules}
}

func (a *Annotator) rule(industryTag string) industryRule {
	if r, ok := a.rules[industryTag]; ok {
		return r
	}
	return defaultRule
}

// Annotate attaches feasibility notes to the solar and wind lines.
func (a *Annotator) Annotate(breakdown *domain.EquipmentBreakdown, req domain.SizingRequest) {
	rule := a.rule(req.IndustryTag)

	if breakdown.Solar != nil && req.SolarMW > 0 {
		breakdown.Solar.Feasibility = a.solarNote(req.SolarMW, rule)
	}
	if breakdown.Wind != nil && req.WindMW > 0 {
		breakdown.Wind.Feasibility = a.windNote(req.WindMW, rule)
	}
}

func (a *Annotator) solarNote(solarMW float64, rule industryRule) *domain.FeasibilityNote {
	mount := "ground"
	acresPerMW := SolarGroundAcresPerMW
	maxAcres := rule.MaxGroundAcres
	if solarMW <= RooftopMaxMW {
		mount = "rooftop"
		acresPerMW = SolarRooftopAcresPerMW
		maxAcres = rule.MaxRoofAcres
	}

	required := solarMW * acresPerMW
	note := &domain.FeasibilityNote{
		IsFeasible:        required <= maxAcres,
		Mount:             mount,
		RequiredAreaAcres: required,
		MaxAreaAcres:      maxAcres,
	}
	if !note.IsFeasible {
		note.Suggestions = append([]string{
			fmt.Sprintf("%.1f acres of %s area needed, %.1f plausible for this facility type",
				required, mount, maxAcres),
		}, solarSuggestions...)
	}
	return note
}

func (a *Annotator) windNote(windMW float64, rule industryRule) *domain.FeasibilityNote {
	required := windMW * WindPadAcresPerMW
	note := &domain.FeasibilityNote{
		IsFeasible:        required <= rule.MaxGroundAcres,
		Mount:             "ground",
		RequiredAreaAcres: required,
		MaxAreaAcres:      rule.MaxGroundAcres,
	}
	if !note.IsFeasible {
		note.Suggestions = append([]string{
			fmt.Sprintf("%.1f acres of turbine pad area needed, %.1f plausible for this facility type",
				required, rule.MaxGroundAcres),
		}, windSuggestions...)
	}
	return note
}
