package domain

import (
	"encoding/json"
	"math"
	"time"
)

// SourceTier records which fallback level produced the active configuration.
type SourceTier string

const (
	SourceRemote  SourceTier = "remote"
	SourceLocal   SourceTier = "local"
	SourceDefault SourceTier = "default"
)

// RateTable is a versioned, immutable snapshot of pricing assumptions for
// every equipment category. It is read-only once handed to the calculator;
// a new resolution supersedes it, nothing mutates it in place.
type RateTable struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"last_updated"`
	UpdatedBy   string    `json:"updated_by"`

	Storage          StorageRates          `json:"storage"`
	Solar            SolarRates            `json:"solar"`
	Wind             WindRates             `json:"wind"`
	Generators       GeneratorRates        `json:"generators"`
	PowerElectronics PowerElectronicsRates `json:"power_electronics"`
	EVCharging       EVChargingRates       `json:"ev_charging"`
	Controls         ControlsRates         `json:"controls"`
	Installation     InstallationRates     `json:"installation"`
}

// StorageTier is one breakpoint of the tiered $/kWh schedule. A tier applies
// when the system's total energy capacity meets or exceeds MinEnergyMWh.
type StorageTier struct {
	MinEnergyMWh float64 `json:"min_energy_mwh"`
	CostPerKWh   float64 `json:"cost_per_kwh"`
	Label        string  `json:"label,omitempty"`
}

type StorageRates struct {
	Tiers []StorageTier `json:"tiers"`
}

type SolarRates struct {
	UtilityCostPerWatt      float64 `json:"utility_cost_per_watt"`
	DistributedCostPerWatt  float64 `json:"distributed_cost_per_watt"`
	UtilityScaleThresholdMW float64 `json:"utility_scale_threshold_mw"`
}

type WindRates struct {
	UtilityCostPerKW        float64 `json:"utility_cost_per_kw"`
	DistributedCostPerKW    float64 `json:"distributed_cost_per_kw"`
	UtilityScaleThresholdMW float64 `json:"utility_scale_threshold_mw"`
}

type GeneratorRates struct {
	DieselCostPerKW     float64 `json:"diesel_cost_per_kw"`
	NaturalGasCostPerKW float64 `json:"natural_gas_cost_per_kw"`
}

type PowerElectronicsRates struct {
	GridFollowingInverterCost float64 `json:"grid_following_inverter_cost"`
	GridFormingInverterCost   float64 `json:"grid_forming_inverter_cost"`
	TransformerCost           float64 `json:"transformer_cost"`
	SwitchgearCost            float64 `json:"switchgear_cost"`
}

type EVChargingRates struct {
	Level2CostPerPort     float64 `json:"level2_cost_per_port"`
	DCFCCostPerPort       float64 `json:"dcfc_cost_per_port"`
	NetworkingCostPerPort float64 `json:"networking_cost_per_port"`
}

type ControlsRates struct {
	EMSBaseCost    float64 `json:"ems_base_cost"`
	SCADACostPerMW float64 `json:"scada_cost_per_mw"`
}

// InstallationRates are percentages of the equipment subtotal, expressed as
// fractions (0.12 == 12%). Kept in the RateTable so the financial model stays
// centrally tunable.
type InstallationRates struct {
	BOSPercent         float64 `json:"bos_percent"`
	EPCPercent         float64 `json:"epc_percent"`
	ContingencyPercent float64 `json:"contingency_percent"`
}

// RateTablePatch is a category-granular partial update: a non-nil category
// replaces that category whole in the merged result. Partial data inside a
// category is rejected by validation of the merged table, not merged around.
type RateTablePatch struct {
	UpdatedBy string `json:"updated_by"`
	Notes     string `json:"notes,omitempty"`

	Storage          *StorageRates          `json:"storage,omitempty"`
	Solar            *SolarRates            `json:"solar,omitempty"`
	Wind             *WindRates             `json:"wind,omitempty"`
	Generators       *GeneratorRates        `json:"generators,omitempty"`
	PowerElectronics *PowerElectronicsRates `json:"power_electronics,omitempty"`
	EVCharging       *EVChargingRates       `json:"ev_charging,omitempty"`
	Controls         *ControlsRates         `json:"controls,omitempty"`
	Installation     *InstallationRates     `json:"installation,omitempty"`
}

// Apply returns a copy of rt with the patch's categories swapped in.
func (p RateTablePatch) Apply(rt RateTable) RateTable {
	merged := rt.Clone()
	if p.Storage != nil {
		merged.Storage = *p.Storage
		merged.Storage.Tiers = append([]StorageTier(nil), p.Storage.Tiers...)
	}
	if p.Solar != nil {
		merged.Solar = *p.Solar
	}
	if p.Wind != nil {
		merged.Wind = *p.Wind
	}
	if p.Generators != nil {
		merged.Generators = *p.Generators
	}
	if p.PowerElectronics != nil {
		merged.PowerElectronics = *p.PowerElectronics
	}
	if p.EVCharging != nil {
		merged.EVCharging = *p.EVCharging
	}
	if p.Controls != nil {
		merged.Controls = *p.Controls
	}
	if p.Installation != nil {
		merged.Installation = *p.Installation
	}
	if p.UpdatedBy != "" {
		merged.UpdatedBy = p.UpdatedBy
	}
	return merged
}

// Empty reports whether the patch carries no category changes at all.
func (p RateTablePatch) Empty() bool {
	return p.Storage == nil && p.Solar == nil && p.Wind == nil &&
		p.Generators == nil && p.PowerElectronics == nil &&
		p.EVCharging == nil && p.Controls == nil && p.Installation == nil
}

// Clone returns a deep copy; the tier slice is the only reference field.
func (rt RateTable) Clone() RateTable {
	out := rt
	out.Storage.Tiers = append([]StorageTier(nil), rt.Storage.Tiers...)
	return out
}

// MarshalPayload renders the table as the JSON payload shape both stores use.
func (rt RateTable) MarshalPayload() ([]byte, error) {
	return json.Marshal(rt)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ResolvedConfiguration is a RateTable plus cache metadata. Instances handed
// out by the resolver are defensive copies; consumers can never reach the
// cached table through one.
type ResolvedConfiguration struct {
	Rates      RateTable
	SourceTier SourceTier
	FetchedAt  time.Time
	ExpiresAt  time.Time
}

// Stale reports whether the configuration came from anything other than the
// remote store, which is the admin-facing "pricing may be out of date" signal.
func (rc ResolvedConfiguration) Stale() bool {
	return rc.SourceTier != SourceRemote
}

func (rc ResolvedConfiguration) Clone() ResolvedConfiguration {
	out := rc
	out.Rates = rc.Rates.Clone()
	return out
}
