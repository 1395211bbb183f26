package sizing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/de-tools/power-quote/pkg/models/domain"
	"github.com/de-tools/power-quote/pkg/services/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_RejectsNegativeInputs(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	cases := []struct {
		name string
		req  domain.SizingRequest
	}{
		{"negative power", domain.SizingRequest{StoragePowerMW: -1, DurationHours: 4}},
		{"negative duration", domain.SizingRequest{StoragePowerMW: 2, DurationHours: -4}},
		{"negative solar", domain.SizingRequest{StoragePowerMW: 2, DurationHours: 4, SolarMW: -0.5}},
		{"negative generator", domain.SizingRequest{GeneratorMW: -3}},
		{"NaN power", domain.SizingRequest{StoragePowerMW: math.NaN()}},
		{"negative EV ports", domain.SizingRequest{StoragePowerMW: 1, DurationHours: 2, EV: &domain.EVRequest{Level2Ports: -1}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			breakdown, err := calc.Calculate(tc.req, rates)
			require.Error(t, err)
			assert.Nil(t, breakdown)
		})
	}
}

func TestCalculator_TotalsInvariant(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		req := domain.SizingRequest{
			StoragePowerMW: rng.Float64() * 50,
			DurationHours:  rng.Float64() * 12,
			SolarMW:        rng.Float64() * 20,
			WindMW:         rng.Float64() * 20,
			GeneratorMW:    rng.Float64() * 10,
			GridConnection: domain.GridOn,
		}
		if rng.Intn(2) == 0 {
			req.GridConnection = domain.GridOff
		}
		if rng.Intn(3) == 0 {
			req.EV = &domain.EVRequest{
				Level2Ports: rng.Intn(40),
				DCFCPorts:   rng.Intn(10),
			}
		}

		breakdown, err := calc.Calculate(req, rates)
		require.NoError(t, err)

		var sum float64
		for _, line := range breakdown.Lines() {
			sum += line.TotalCost
		}

		assert.Equal(t, sum, breakdown.Totals.EquipmentCost,
			"equipment cost must equal the sum of category totals")
		assert.Equal(t,
			breakdown.Totals.EquipmentCost+breakdown.Totals.InstallationCost,
			breakdown.Totals.TotalProjectCost,
			"project total must equal equipment plus installation exactly")
		assert.Equal(t, breakdown.Installation.Total(), breakdown.Totals.InstallationCost)
	}
}

func TestCalculator_StorageTierMonotonicity(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	// Crossing the 1 MWh tier boundary must never select a more expensive
	// $/kWh rate.
	below, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 0.99, DurationHours: 1, GridConnection: domain.GridOn,
	}, rates)
	require.NoError(t, err)
	above, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 1.01, DurationHours: 1, GridConnection: domain.GridOn,
	}, rates)
	require.NoError(t, err)

	require.NotNil(t, below.Storage)
	require.NotNil(t, above.Storage)
	assert.LessOrEqual(t, above.Storage.UnitCost, below.Storage.UnitCost)
}

func TestCalculator_StorageTierSelection(t *testing.T) {
	rates := pricing.DefaultRateTable().Storage.Tiers

	cases := []struct {
		energyMWh float64
		wantRate  float64
	}{
		{0.5, 420},
		{1, 380},
		{9.99, 380},
		{10, 330},
		{250, 290},
	}
	for _, tc := range cases {
		rate, _ := storageTierRate(rates, tc.energyMWh)
		assert.Equal(t, tc.wantRate, rate, "energy %.2f MWh", tc.energyMWh)
	}
}

func TestCalculator_StorageCostCap(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()
	rates.Storage.Tiers = []domain.StorageTier{
		{MinEnergyMWh: 0, CostPerKWh: 900, Label: "premium"},
	}

	breakdown, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 0.5, DurationHours: 2, GridConnection: domain.GridOn,
	}, rates)
	require.NoError(t, err)
	require.NotNil(t, breakdown.Storage)
	assert.Equal(t, DefaultStorageCostCapPerKWh, breakdown.Storage.UnitCost)
}

func TestCalculator_StorageModuleSizing(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	// 2 MW / 8 MWh: energy is binding — ceil(8 / 3.4) = 3 modules.
	breakdown, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 2, DurationHours: 4, GridConnection: domain.GridOn,
	}, rates)
	require.NoError(t, err)
	require.NotNil(t, breakdown.Storage)
	assert.Equal(t, 3.0, breakdown.Storage.Quantity)

	// 5 MW / 5 MWh: power is binding — ceil(5 / 1.7) = 3 modules.
	breakdown, err = calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 5, DurationHours: 1, GridConnection: domain.GridOn,
	}, rates)
	require.NoError(t, err)
	require.NotNil(t, breakdown.Storage)
	assert.Equal(t, 3.0, breakdown.Storage.Quantity)
}

func TestCalculator_OffGridAutoSizesGenerator(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	breakdown, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 2,
		DurationHours:  4,
		GridConnection: domain.GridOff,
	}, rates)
	require.NoError(t, err)

	require.NotNil(t, breakdown.Generators, "off-grid request must include backup generation")
	assert.GreaterOrEqual(t, breakdown.Generators.Quantity, 1000.0,
		"backup generator must cover at least half of storage power")
	assert.Positive(t, breakdown.Generators.TotalCost)
}

func TestCalculator_OffGridGeneratorFloor(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	breakdown, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 0.4,
		DurationHours:  2,
		GridConnection: domain.GridOff,
	}, rates)
	require.NoError(t, err)

	require.NotNil(t, breakdown.Generators)
	assert.Equal(t, BackupGeneratorFloorMW*1000, breakdown.Generators.Quantity)
}

func TestCalculator_ControlsCoverAutoSizedGenerator(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	breakdown, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 2,
		DurationHours:  4,
		GridConnection: domain.GridOff,
	}, rates)
	require.NoError(t, err)
	require.NotNil(t, breakdown.Generators)
	require.NotNil(t, breakdown.Controls)

	// 2 MW storage plus the 1 MW auto-sized backup generator.
	managedMW := 3.0
	assert.Equal(t,
		rates.Controls.EMSBaseCost+rates.Controls.SCADACostPerMW*managedMW,
		breakdown.Controls.TotalCost,
		"SCADA scope must include the auto-sized backup generator")
}

func TestCalculator_OnGridSkipsUnrequestedGenerator(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	breakdown, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 2, DurationHours: 4, GridConnection: domain.GridOn,
	}, rates)
	require.NoError(t, err)
	assert.Nil(t, breakdown.Generators)
}

func TestCalculator_GridFormingInverterSwitch(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	onGrid, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 4, DurationHours: 2, GridConnection: domain.GridOn,
	}, rates)
	require.NoError(t, err)
	offGrid, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 4, DurationHours: 2, GridConnection: domain.GridOff,
	}, rates)
	require.NoError(t, err)

	require.NotNil(t, onGrid.Inverters)
	require.NotNil(t, offGrid.Inverters)
	assert.Equal(t, rates.PowerElectronics.GridFollowingInverterCost, onGrid.Inverters.UnitCost)
	assert.Equal(t, rates.PowerElectronics.GridFormingInverterCost, offGrid.Inverters.UnitCost)
	assert.Greater(t, offGrid.Inverters.TotalCost, onGrid.Inverters.TotalCost)
}

func TestCalculator_SolarScaleClass(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	distributed, err := calc.Calculate(domain.SizingRequest{
		SolarMW: 2, GridConnection: domain.GridOn,
	}, rates)
	require.NoError(t, err)
	utility, err := calc.Calculate(domain.SizingRequest{
		SolarMW: 20, GridConnection: domain.GridOn,
	}, rates)
	require.NoError(t, err)

	require.NotNil(t, distributed.Solar)
	require.NotNil(t, utility.Solar)
	assert.Equal(t, rates.Solar.DistributedCostPerWatt*1000, distributed.Solar.UnitCost)
	assert.Equal(t, rates.Solar.UtilityCostPerWatt*1000, utility.Solar.UnitCost)
}

func TestCalculator_EVChargingPricing(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	breakdown, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 1,
		DurationHours:  2,
		GridConnection: domain.GridOn,
		EV:             &domain.EVRequest{Level2Ports: 10, DCFCPorts: 2},
	}, rates)
	require.NoError(t, err)

	require.NotNil(t, breakdown.EVCharging)
	want := 10*(rates.EVCharging.Level2CostPerPort+rates.EVCharging.NetworkingCostPerPort) +
		2*(rates.EVCharging.DCFCCostPerPort+rates.EVCharging.NetworkingCostPerPort)
	assert.Equal(t, want, breakdown.EVCharging.TotalCost)
	assert.Equal(t, 12.0, breakdown.EVCharging.Quantity)
}

func TestCalculator_MissingCategoryIsOmittedNotFree(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()
	rates.EVCharging = domain.EVChargingRates{}

	breakdown, err := calc.Calculate(domain.SizingRequest{
		StoragePowerMW: 1,
		DurationHours:  2,
		GridConnection: domain.GridOn,
		EV:             &domain.EVRequest{Level2Ports: 4},
	}, rates)
	require.NoError(t, err)

	assert.Nil(t, breakdown.EVCharging)
	assert.Contains(t, breakdown.OmittedCategories, domain.CategoryEVCharging)
}

func TestCalculator_Deterministic(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()
	req := domain.SizingRequest{
		StoragePowerMW: 3.7,
		DurationHours:  4.2,
		SolarMW:        6.1,
		GridConnection: domain.GridOff,
		IndustryTag:    "manufacturing",
	}

	first, err := calc.Calculate(req, rates)
	require.NoError(t, err)
	second, err := calc.Calculate(req, rates)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculator_DegenerateZeroRequest(t *testing.T) {
	calc := NewCalculator()
	rates := pricing.DefaultRateTable()

	breakdown, err := calc.Calculate(domain.SizingRequest{GridConnection: domain.GridOn}, rates)
	require.NoError(t, err)
	assert.Empty(t, breakdown.Lines())
	assert.Zero(t, breakdown.Totals.TotalProjectCost)
}
