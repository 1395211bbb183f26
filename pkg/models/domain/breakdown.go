package domain

import "time"

// Equipment category identifiers used in breakdown lines and omission flags.
const (
	CategoryStorage      = "storage"
	CategorySolar        = "solar"
	CategoryWind         = "wind"
	CategoryGenerators   = "generators"
	CategoryInverters    = "inverters"
	CategoryTransformers = "transformers"
	CategorySwitchgear   = "switchgear"
	CategoryEVCharging   = "ev_charging"
	CategoryControls     = "controls"
)

// FeasibilityNote is advisory output attached to a generation-asset line.
// It never feeds back into cost.
type FeasibilityNote struct {
	IsFeasible        bool
	Mount             string
	RequiredAreaAcres float64
	MaxAreaAcres      float64
	Suggestions       []string
}

// CategoryLine is one priced equipment category.
type CategoryLine struct {
	Category    string
	Quantity    float64
	Unit        string
	UnitCost    float64
	TotalCost   float64
	Description string
	Feasibility *FeasibilityNote
}

// InstallationCosts are derived from the equipment subtotal using the
// percentages configured in the RateTable.
type InstallationCosts struct {
	BOS         float64
	EPC         float64
	Contingency float64
}

func (i InstallationCosts) Total() float64 {
	return i.BOS + i.EPC + i.Contingency
}

type Totals struct {
	EquipmentCost    float64
	InstallationCost float64
	TotalProjectCost float64
}

// EquipmentBreakdown is the calculator's output: one line per priced
// category, installation costs, and totals. OmittedCategories lists
// categories the request asked for but the RateTable could not price;
// an omitted category means "cannot price", never "free".
type EquipmentBreakdown struct {
	Storage      *CategoryLine
	Solar        *CategoryLine
	Wind         *CategoryLine
	Generators   *CategoryLine
	Inverters    *CategoryLine
	Transformers *CategoryLine
	Switchgear   *CategoryLine
	EVCharging   *CategoryLine
	Controls     *CategoryLine

	OmittedCategories []string
	Installation      InstallationCosts
	Totals            Totals
}

// Lines returns the present category lines in a stable order.
func (b EquipmentBreakdown) Lines() []*CategoryLine {
	var lines []*CategoryLine
	for _, l := range []*CategoryLine{
		b.Storage, b.Solar, b.Wind, b.Generators,
		b.Inverters, b.Transformers, b.Switchgear,
		b.EVCharging, b.Controls,
	} {
		if l != nil {
			lines = append(lines, l)
		}
	}
	return lines
}

// Quote is a breakdown plus the pricing provenance callers need to judge
// whether the numbers are current.
type Quote struct {
	Request     SizingRequest
	Breakdown   EquipmentBreakdown
	RateVersion string
	SourceTier  SourceTier
	Stale       bool
	GeneratedAt time.Time
}
