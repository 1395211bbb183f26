package api

import (
	"time"

	"github.com/de-tools/power-quote/pkg/models/domain"
)

type RatesResponse struct {
	Version     string           `json:"version"`
	LastUpdated time.Time        `json:"last_updated"`
	UpdatedBy   string           `json:"updated_by"`
	SourceTier  string           `json:"source_tier"`
	Stale       bool             `json:"stale"`
	FetchedAt   time.Time        `json:"fetched_at"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Rates       domain.RateTable `json:"rates"`
}

// UpdateRatesRequest mirrors domain.RateTablePatch on the wire; a present
// category replaces that category whole.
type UpdateRatesRequest struct {
	UpdatedBy string `json:"updated_by"`
	Notes     string `json:"notes,omitempty"`

	Storage          *domain.StorageRates          `json:"storage,omitempty"`
	Solar            *domain.SolarRates            `json:"solar,omitempty"`
	Wind             *domain.WindRates             `json:"wind,omitempty"`
	Generators       *domain.GeneratorRates        `json:"generators,omitempty"`
	PowerElectronics *domain.PowerElectronicsRates `json:"power_electronics,omitempty"`
	EVCharging       *domain.EVChargingRates       `json:"ev_charging,omitempty"`
	Controls         *domain.ControlsRates         `json:"controls,omitempty"`
	Installation     *domain.InstallationRates     `json:"installation,omitempty"`
}

func (r UpdateRatesRequest) ToPatch() domain.RateTablePatch {
	return domain.RateTablePatch{
		UpdatedBy:        r.UpdatedBy,
		Notes:            r.Notes,
		Storage:          r.Storage,
		Solar:            r.Solar,
		Wind:             r.Wind,
		Generators:       r.Generators,
		PowerElectronics: r.PowerElectronics,
		EVCharging:       r.EVCharging,
		Controls:         r.Controls,
		Installation:     r.Installation,
	}
}

type UpdateRatesResponse struct {
	Version     string `json:"version"`
	PersistedTo string `json:"persisted_to"`
}
