package sizing

import (
	"fmt"
	"math"

	"github.com/de-tools/power-quote/pkg/models/domain"
)

// Reference unit constants. Sizing works in whole units of real hardware,
// so quantities are ceilings, never fractions.
const (
	// Storage reference module (containerized BESS block).
	StorageModulePowerMW   = 1.7
	StorageModuleEnergyMWh = 3.4

	// DefaultStorageCostCapPerKWh bounds the effective $/kWh so premium
	// small-system tiers cannot dominate a quote. Carried over from the
	// established financial model; override via Calculator if it changes.
	DefaultStorageCostCapPerKWh = 450.0

	InverterUnitMW    = 3.6
	TransformerUnitMW = 5.0
	SwitchgearUnitMW  = 5.0

	// Off-grid backup policy: a generator covering at least half of storage
	// power, never smaller than the floor.
	BackupGeneratorFraction = 0.5
	BackupGeneratorFloorMW  = 0.5
)

// Calculator turns a SizingRequest and a RateTable into a priced equipment
// breakdown. It is a pure function over its inputs: no I/O, no hidden
// state, identical inputs always produce an identical breakdown.
type Calculator struct {
	// StorageCostCapPerKWh is the effective $/kWh ceiling for storage.
	StorageCostCapPerKWh float64
}

func NewCalculator() *Calculator {
	return &Calculator{StorageCostCapPerKWh: DefaultStorageCostCapPerKWh}
}

// Calculate produces the equipment breakdown. Negative sizing inputs are a
// caller bug and fail fast; a category the RateTable cannot price is
// omitted and flagged, never silently priced at zero.
func (c *Calculator) Calculate(req domain.SizingRequest, rates domain.RateTable) (*domain.EquipmentBreakdown, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	b := &domain.EquipmentBreakdown{}

	c.priceStorage(req, rates, b)
	c.pricePowerElectronics(req, rates, b)
	c.priceGenerators(req, rates, b)
	c.priceSolar(req, rates, b)
	c.priceWind(req, rates, b)
	c.priceEVCharging(req, rates, b)
	c.priceControls(req, rates, b)

	var equipment float64
	for _, line := range b.Lines() {
		equipment += line.TotalCost
	}

	if rates.Installation.Valid() {
		b.Installation = domain.InstallationCosts{
			BOS:         equipment * rates.Installation.BOSPercent,
			EPC:         equipment * rates.Installation.EPCPercent,
			Contingency: equipment * rates.Installation.ContingencyPercent,
		}
	} else {
		b.OmittedCategories = append(b.OmittedCategories, "installation")
	}

	installation := b.Installation.Total()
	b.Totals = domain.Totals{
		EquipmentCost:    equipment,
		InstallationCost: installation,
		TotalProjectCost: equipment + installation,
	}
	return b, nil
}

func validateRequest(req domain.SizingRequest) error {
	checks := []struct {
		name  string
		value float64
	}{
		{"storage power", req.StoragePowerMW},
		{"duration", req.DurationHours},
		{"solar capacity", req.SolarMW},
		{"wind capacity", req.WindMW},
		{"generator capacity", req.GeneratorMW},
	}
	for _, check := range checks {
		if check.value < 0 || math.IsNaN(check.value) || math.IsInf(check.value, 0) {
			return fmt.Errorf("invalid sizing request: %s must be a non-negative number, got %v",
				check.name, check.value)
		}
	}
	if req.EV != nil && (req.EV.Level2Ports < 0 || req.EV.DCFCPorts < 0) {
		return fmt.Errorf("invalid sizing request: EV port counts must be non-negative")
	}
	return nil
}

func (c *Calculator) priceStorage(req domain.SizingRequest, rates domain.RateTable, b *domain.EquipmentBreakdown) {
	if req.StoragePowerMW == 0 {
		return
	}
	if !rates.Storage.Valid() {
		b.OmittedCategories = append(b.OmittedCategories, domain.CategoryStorage)
		return
	}

	energyMWh := req.StorageEnergyMWh()

	// Sized to whichever constraint is binding: power or energy.
	modules := math.Ceil(math.Max(
		req.StoragePowerMW/StorageModulePowerMW,
		energyMWh/StorageModuleEnergyMWh,
	))

	rate, label := storageTierRate(rates.Storage.Tiers, energyMWh)
	if limit := c.StorageCostCapPerKWh; limit > 0 && rate > limit {
		rate = limit
	}

	b.Storage = &domain.CategoryLine{
		Category:  domain.CategoryStorage,
		Quantity:  modules,
		Unit:      "modules",
		UnitCost:  rate,
		TotalCost: energyMWh * 1000 * rate,
		Description: fmt.Sprintf("%.0f x %.1f MW / %.1f MWh modules, %.1f MWh total at $%.0f/kWh (%s tier)",
			modules, StorageModulePowerMW, StorageModuleEnergyMWh, energyMWh, rate, label),
	}
}

// storageTierRate selects the tier whose lower bound the total energy
// capacity meets or exceeds; the highest qualifying tier wins. If nothing
// qualifies (every bound above the capacity) the lowest tier applies.
func storageTierRate(tiers []domain.StorageTier, energyMWh float64) (float64, string) {
	var selected *domain.StorageTier
	var lowest *domain.StorageTier

	for i := range tiers {
		t := &tiers[i]
		if lowest == nil || t.MinEnergyMWh < lowest.MinEnergyMWh {
			lowest = t
		}
		if energyMWh >= t.MinEnergyMWh {
			if selected == nil || t.MinEnergyMWh > selected.MinEnergyMWh {
				selected = t
			}
		}
	}
	if selected == nil {
		selected = lowest
	}
	return selected.CostPerKWh, selected.Label
}

func (c *Calculator) pricePowerElectronics(req domain.SizingRequest, rates domain.RateTable, b *domain.EquipmentBreakdown) {
	if req.StoragePowerMW == 0 {
		return
	}
	if !rates.PowerElectronics.Valid() {
		b.OmittedCategories = append(b.OmittedCategories,
			domain.CategoryInverters, domain.CategoryTransformers, domain.CategorySwitchgear)
		return
	}

	// Islanded sites need grid-forming inverters; this is a capability
	// switch, not an interpolation.
	inverterCost := rates.PowerElectronics.GridFollowingInverterCost
	inverterKind := "grid-following"
	if req.GridConnection.Islanded() {
		inverterCost = rates.PowerElectronics.GridFormingInverterCost
		inverterKind = "grid-forming"
	}

	inverters := math.Ceil(req.StoragePowerMW / InverterUnitMW)
	b.Inverters = &domain.CategoryLine{
		Category:  domain.CategoryInverters,
		Quantity:  inverters,
		Unit:      "units",
		UnitCost:  inverterCost,
		TotalCost: inverters * inverterCost,
		Description: fmt.Sprintf("%.0f x %.1f MW %s inverters",
			inverters, InverterUnitMW, inverterKind),
	}

	transformers := math.Ceil(req.StoragePowerMW / TransformerUnitMW)
	b.Transformers = &domain.CategoryLine{
		Category:    domain.CategoryTransformers,
		Quantity:    transformers,
		Unit:        "units",
		UnitCost:    rates.PowerElectronics.TransformerCost,
		TotalCost:   transformers * rates.PowerElectronics.TransformerCost,
		Description: fmt.Sprintf("%.0f x %.1f MVA step-up transformers", transformers, TransformerUnitMW),
	}

	switchgear := math.Ceil(req.StoragePowerMW / SwitchgearUnitMW)
	b.Switchgear = &domain.CategoryLine{
		Category:    domain.CategorySwitchgear,
		Quantity:    switchgear,
		Unit:        "units",
		UnitCost:    rates.PowerElectronics.SwitchgearCost,
		TotalCost:   switchgear * rates.PowerElectronics.SwitchgearCost,
		Description: fmt.Sprintf("%.0f x %.1f MW switchgear sections", switchgear, SwitchgearUnitMW),
	}
}

// effectiveGeneratorMW is the generator capacity the system actually carries:
// the requested capacity, or the auto-sized backup for off-grid systems with
// storage that asked for none.
func effectiveGeneratorMW(req domain.SizingRequest) (float64, bool) {
	if req.GridConnection == domain.GridOff && req.GeneratorMW == 0 && req.StoragePowerMW > 0 {
		return math.Max(req.StoragePowerMW*BackupGeneratorFraction, BackupGeneratorFloorMW), true
	}
	return req.GeneratorMW, false
}

func (c *Calculator) priceGenerators(req domain.SizingRequest, rates domain.RateTable, b *domain.EquipmentBreakdown) {
	generatorMW, autoSized := effectiveGeneratorMW(req)
	if generatorMW == 0 {
		return
	}
	if !rates.Generators.Valid() {
		b.OmittedCategories = append(b.OmittedCategories, domain.CategoryGenerators)
		return
	}

	fuel := req.GeneratorFuel
	if fuel == "" {
		fuel = domain.FuelDiesel
	}
	costPerKW := rates.Generators.DieselCostPerKW
	if fuel == domain.FuelNaturalGas {
		costPerKW = rates.Generators.NaturalGasCostPerKW
	}

	description := fmt.Sprintf("%.1f MW %s generation", generatorMW, fuel)
	if autoSized {
		description += " (auto-sized backup for off-grid operation)"
	}

	b.Generators = &domain.CategoryLine{
		Category:    domain.CategoryGenerators,
		Quantity:    generatorMW * 1000,
		Unit:        "kW",
		UnitCost:    costPerKW,
		TotalCost:   generatorMW * 1000 * costPerKW,
		Description: description,
	}
}

func (c *Calculator) priceSolar(req domain.SizingRequest, rates domain.RateTable, b *domain.EquipmentBreakdown) {
	if req.SolarMW == 0 {
		return
	}
	if !rates.Solar.Valid() {
		b.OmittedCategories = append(b.OmittedCategories, domain.CategorySolar)
		return
	}

	costPerWatt := rates.Solar.DistributedCostPerWatt
	scale := "distributed"
	if req.SolarMW >= rates.Solar.UtilityScaleThresholdMW {
		costPerWatt = rates.Solar.UtilityCostPerWatt
		scale = "utility"
	}

	b.Solar = &domain.CategoryLine{
		Category:    domain.CategorySolar,
		Quantity:    req.SolarMW * 1000,
		Unit:        "kW",
		UnitCost:    costPerWatt * 1000,
		TotalCost:   req.SolarMW * 1e6 * costPerWatt,
		Description: fmt.Sprintf("%.1f MW %s-scale solar at $%.2f/W", req.SolarMW, scale, costPerWatt),
	}
}

func (c *Calculator) priceWind(req domain.SizingRequest, rates domain.RateTable, b *domain.EquipmentBreakdown) {
	if req.WindMW == 0 {
		return
	}
	if !rates.Wind.Valid() {
		b.OmittedCategories = append(b.OmittedCategories, domain.CategoryWind)
		return
	}

	costPerKW := rates.Wind.DistributedCostPerKW
	scale := "distributed"
	if req.WindMW >= rates.Wind.UtilityScaleThresholdMW {
		costPerKW = rates.Wind.UtilityCostPerKW
		scale = "utility"
	}

	b.Wind = &domain.CategoryLine{
		Category:    domain.CategoryWind,
		Quantity:    req.WindMW * 1000,
		Unit:        "kW",
		UnitCost:    costPerKW,
		TotalCost:   req.WindMW * 1000 * costPerKW,
		Description: fmt.Sprintf("%.1f MW %s-scale wind at $%.0f/kW", req.WindMW, scale, costPerKW),
	}
}

func (c *Calculator) priceEVCharging(req domain.SizingRequest, rates domain.RateTable, b *domain.EquipmentBreakdown) {
	if req.EV == nil || req.EV.TotalPorts() == 0 {
		return
	}
	if !rates.EVCharging.Valid() {
		b.OmittedCategories = append(b.OmittedCategories, domain.CategoryEVCharging)
		return
	}

	level2 := float64(req.EV.Level2Ports)
	dcfc := float64(req.EV.DCFCPorts)
	ports := level2 + dcfc

	// Every port carries the networking/compliance surcharge on top of its
	// class unit cost.
	total := level2*(rates.EVCharging.Level2CostPerPort+rates.EVCharging.NetworkingCostPerPort) +
		dcfc*(rates.EVCharging.DCFCCostPerPort+rates.EVCharging.NetworkingCostPerPort)

	b.EVCharging = &domain.CategoryLine{
		Category:  domain.CategoryEVCharging,
		Quantity:  ports,
		Unit:      "ports",
		UnitCost:  total / ports,
		TotalCost: total,
		Description: fmt.Sprintf("%.0f L2 + %.0f DCFC ports incl. networking surcharge",
			level2, dcfc),
	}
}

func (c *Calculator) priceControls(req domain.SizingRequest, rates domain.RateTable, b *domain.EquipmentBreakdown) {
	generatorMW, _ := effectiveGeneratorMW(req)
	systemMW := req.StoragePowerMW + req.SolarMW + req.WindMW + generatorMW
	if systemMW == 0 {
		return
	}
	if !rates.Controls.Valid() {
		b.OmittedCategories = append(b.OmittedCategories, domain.CategoryControls)
		return
	}

	total := rates.Controls.EMSBaseCost + rates.Controls.SCADACostPerMW*systemMW
	b.Controls = &domain.CategoryLine{
		Category:    domain.CategoryControls,
		Quantity:    1,
		Unit:        "system",
		UnitCost:    total,
		TotalCost:   total,
		Description: fmt.Sprintf("EMS + SCADA for %.1f MW of managed assets", systemMW),
	}
}
