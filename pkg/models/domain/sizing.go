package domain

// GridConnection describes how the site relates to the utility grid.
type GridConnection string

const (
	GridOn      GridConnection = "on-grid"
	GridOff     GridConnection = "off-grid"
	GridLimited GridConnection = "limited"
)

// Islanded reports whether the site must be able to run without the grid,
// which drives grid-forming electronics and the backup-generator policy.
func (g GridConnection) Islanded() bool {
	return g == GridOff || g == GridLimited
}

type GeneratorFuel string

const (
	FuelDiesel     GeneratorFuel = "diesel"
	FuelNaturalGas GeneratorFuel = "natural-gas"
)

// EVRequest carries the EV-specific sub-inputs. The EV charging category is
// only priced when a request includes one of these.
type EVRequest struct {
	Level2Ports int
	DCFCPorts   int
}

func (e EVRequest) TotalPorts() int {
	return e.Level2Ports + e.DCFCPorts
}

// SizingRequest is the calculator's input. Power values are MW, duration is
// hours. Zero capacities are legal; negative ones are a caller bug and are
// rejected before any computation.
type SizingRequest struct {
	StoragePowerMW float64
	DurationHours  float64
	SolarMW        float64
	WindMW         float64
	GeneratorMW    float64
	GeneratorFuel  GeneratorFuel
	GridConnection GridConnection
	IndustryTag    string
	LocationTag    string
	EV             *EVRequest
}

// StorageEnergyMWh is the requested energy capacity implied by power and
// duration.
func (r SizingRequest) StorageEnergyMWh() float64 {
	return r.StoragePowerMW * r.DurationHours
}

// Meaningful reports whether at least one asset was actually requested.
// Callers are expected to guard degenerate all-zero requests with this.
func (r SizingRequest) Meaningful() bool {
	if r.StoragePowerMW > 0 || r.SolarMW > 0 || r.WindMW > 0 || r.GeneratorMW > 0 {
		return true
	}
	return r.EV != nil && r.EV.TotalPorts() > 0
}
