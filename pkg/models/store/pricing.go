package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/power-quote/pkg/models/domain"
)

// PricingRecord is the persisted shape shared by the remote warehouse store
// and the local cache slot: the full RateTable as a JSON payload plus the
// provenance columns kept queryable alongside it.
type PricingRecord struct {
	Payload   []byte
	Version   string
	UpdatedAt time.Time
	UpdatedBy string
	Notes     string
}

// NewPricingRecord snapshots a RateTable into its persisted form.
func NewPricingRecord(rt domain.RateTable, notes string) (PricingRecord, error) {
	payload, err := rt.MarshalPayload()
	if err != nil {
		return PricingRecord{}, fmt.Errorf("marshal rate table: %w", err)
	}
	return PricingRecord{
		Payload:   payload,
		Version:   rt.Version,
		UpdatedAt: rt.LastUpdated,
		UpdatedBy: rt.UpdatedBy,
		Notes:     notes,
	}, nil
}

// Decode unmarshals the payload back into a RateTable. The provenance
// columns win over whatever the payload carries, since an operator may have
// fixed them up directly in the warehouse.
func (r PricingRecord) Decode() (domain.RateTable, error) {
	var rt domain.RateTable
	if err := json.Unmarshal(r.Payload, &rt); err != nil {
		return domain.RateTable{}, fmt.Errorf("unmarshal rate table payload: %w", err)
	}
	if r.Version != "" {
		rt.Version = r.Version
	}
	if !r.UpdatedAt.IsZero() {
		rt.LastUpdated = r.UpdatedAt
	}
	if r.UpdatedBy != "" {
		rt.UpdatedBy = r.UpdatedBy
	}
	return rt, nil
}
