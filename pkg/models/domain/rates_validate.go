package domain

// Valid reports whether the category carries a complete, usable schedule.
// A zero-valued category (the shape a partially-written row decodes to) is
// not valid; callers treat it the same as the category being absent.
func (s StorageRates) Valid() bool {
	if len(s.Tiers) == 0 {
		return false
	}
	for _, t := range s.Tiers {
		if t.MinEnergyMWh < 0 || !positiveFinite(t.CostPerKWh) {
			return false
		}
	}
	return true
}

func (s SolarRates) Valid() bool {
	return positiveFinite(s.UtilityCostPerWatt) &&
		positiveFinite(s.DistributedCostPerWatt) &&
		positiveFinite(s.UtilityScaleThresholdMW)
}

func (w WindRates) Valid() bool {
	return positiveFinite(w.UtilityCostPerKW) &&
		positiveFinite(w.DistributedCostPerKW) &&
		positiveFinite(w.UtilityScaleThresholdMW)
}

func (g GeneratorRates) Valid() bool {
	return positiveFinite(g.DieselCostPerKW) && positiveFinite(g.NaturalGasCostPerKW)
}

func (p PowerElectronicsRates) Valid() bool {
	return positiveFinite(p.GridFollowingInverterCost) &&
		positiveFinite(p.GridFormingInverterCost) &&
		positiveFinite(p.TransformerCost) &&
		positiveFinite(p.SwitchgearCost)
}

func (e EVChargingRates) Valid() bool {
	return positiveFinite(e.Level2CostPerPort) &&
		positiveFinite(e.DCFCCostPerPort) &&
		positiveFinite(e.NetworkingCostPerPort)
}

func (c ControlsRates) Valid() bool {
	return positiveFinite(c.EMSBaseCost) && positiveFinite(c.SCADACostPerMW)
}

func (i InstallationRates) Valid() bool {
	return positiveFinite(i.BOSPercent) &&
		positiveFinite(i.EPCPercent) &&
		positiveFinite(i.ContingencyPercent)
}

// Valid reports whether every numeric leaf in the table is a positive finite
// number. A table failing this is never handed to the calculator.
func (rt RateTable) Valid() bool {
	return rt.Storage.Valid() &&
		rt.Solar.Valid() &&
		rt.Wind.Valid() &&
		rt.Generators.Valid() &&
		rt.PowerElectronics.Valid() &&
		rt.EVCharging.Valid() &&
		rt.Controls.Valid() &&
		rt.Installation.Valid()
}
