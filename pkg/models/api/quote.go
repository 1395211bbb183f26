package api

import "time"

type EVInputs struct {
	Level2Ports int `json:"level2_ports"`
	DCFCPorts   int `json:"dcfc_ports"`
}

type QuoteRequest struct {
	StoragePowerMW float64   `json:"storage_power_mw"`
	DurationHours  float64   `json:"duration_hours"`
	SolarMW        float64   `json:"solar_mw,omitempty"`
	WindMW         float64   `json:"wind_mw,omitempty"`
	GeneratorMW    float64   `json:"generator_mw,omitempty"`
	GeneratorFuel  string    `json:"generator_fuel,omitempty"`
	GridConnection string    `json:"grid_connection"`
	IndustryTag    string    `json:"industry_tag,omitempty"`
	LocationTag    string    `json:"location_tag,omitempty"`
	EV             *EVInputs `json:"ev,omitempty"`
}

type FeasibilityNote struct {
	IsFeasible        bool     `json:"is_feasible"`
	Mount             string   `json:"mount"`
	RequiredAreaAcres float64  `json:"required_area_acres"`
	MaxAreaAcres      float64  `json:"max_area_acres"`
	Suggestions       []string `json:"suggestions,omitempty"`
}

type CategoryLine struct {
	Category    string           `json:"category"`
	Quantity    float64          `json:"quantity"`
	Unit        string           `json:"unit"`
	UnitCost    float64          `json:"unit_cost"`
	TotalCost   float64          `json:"total_cost"`
	Description string           `json:"description,omitempty"`
	Feasibility *FeasibilityNote `json:"feasibility,omitempty"`
}

type InstallationCosts struct {
	BOS         float64 `json:"bos"`
	EPC         float64 `json:"epc"`
	Contingency float64 `json:"contingency"`
}

type Totals struct {
	EquipmentCost    float64 `json:"equipment_cost"`
	InstallationCost float64 `json:"installation_cost"`
	TotalProjectCost float64 `json:"total_project_cost"`
}

type QuoteResponse struct {
	Lines             []CategoryLine    `json:"lines"`
	OmittedCategories []string          `json:"omitted_categories,omitempty"`
	Installation      InstallationCosts `json:"installation"`
	Totals            Totals            `json:"totals"`
	RateVersion       string            `json:"rate_version"`
	SourceTier        string            `json:"source_tier"`
	Stale             bool              `json:"stale"`
	GeneratedAt       time.Time         `json:"generated_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
