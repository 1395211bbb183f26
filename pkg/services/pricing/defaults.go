package pricing

import (
	"time"

	"github.com/de-tools/power-quote/pkg/models/domain"
)

// DefaultVersion tags the compiled-in table so quotes produced on the
// defaults tier are traceable.
const DefaultVersion = "1.0.0"

// DefaultRateTable returns the compiled-in pricing assumptions, the last
// tier of the fallback chain. It validates by construction; the resolver
// relies on that to never fail.
func DefaultRateTable() domain.RateTable {
	return domain.RateTable{
		Version:     DefaultVersion,
		LastUpdated: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedBy:   "built-in",
		Storage: domain.StorageRates{
			Tiers: []domain.StorageTier{
				{MinEnergyMWh: 0, CostPerKWh: 420, Label: "small"},
				{MinEnergyMWh: 1, CostPerKWh: 380, Label: "commercial"},
				{MinEnergyMWh: 10, CostPerKWh: 330, Label: "large"},
				{MinEnergyMWh: 100, CostPerKWh: 290, Label: "utility"},
			},
		},
		Solar: domain.SolarRates{
			UtilityCostPerWatt:      0.95,
			DistributedCostPerWatt:  1.60,
			UtilityScaleThresholdMW: 5,
		},
		Wind: domain.WindRates{
			UtilityCostPerKW:        1350,
			DistributedCostPerKW:    2800,
			UtilityScaleThresholdMW: 10,
		},
		Generators: domain.GeneratorRates{
			DieselCostPerKW:     800,
			NaturalGasCostPerKW: 950,
		},
		PowerElectronics: domain.PowerElectronicsRates{
			GridFollowingInverterCost: 110_000,
			GridFormingInverterCost:   165_000,
			TransformerCost:           240_000,
			SwitchgearCost:            85_000,
		},
		EVCharging: domain.EVChargingRates{
			Level2CostPerPort:     6_500,
			DCFCCostPerPort:       48_000,
			NetworkingCostPerPort: 1_200,
		},
		Controls: domain.ControlsRates{
			EMSBaseCost:    75_000,
			SCADACostPerMW: 8_000,
		},
		Installation: domain.InstallationRates{
			BOSPercent:         0.12,
			EPCPercent:         0.18,
			ContingencyPercent: 0.08,
		},
	}
}
