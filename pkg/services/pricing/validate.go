package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/power-quote/pkg/models/domain"
	"github.com/de-tools/power-quote/pkg/models/store"
)

// A persisted table must at minimum carry these categories; a row missing
// one is a partial write or a half-finished migration and is rejected whole.
var requiredCategories = []string{
	"storage",
	"generators",
	"power_electronics",
	"installation",
}

// SchemaValid is the resolver's acceptance check: the required categories
// must each hold a complete positive schedule. This is deliberately stronger
// than "keys exist" — a category full of zeroes is what a partially-written
// row decodes to, and using it would price equipment at nothing.
func SchemaValid(rt domain.RateTable) bool {
	return rt.Storage.Valid() &&
		rt.Generators.Valid() &&
		rt.PowerElectronics.Valid() &&
		rt.Installation.Valid()
}

// DecodeValidRecord turns a persisted record into a RateTable, rejecting it
// whole if any required category key is absent or the sentinel check fails.
func DecodeValidRecord(record *store.PricingRecord) (domain.RateTable, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(record.Payload, &keys); err != nil {
		return domain.RateTable{}, fmt.Errorf("malformed pricing payload: %w", err)
	}
	for _, category := range requiredCategories {
		if _, ok := keys[category]; !ok {
			return domain.RateTable{}, fmt.Errorf("pricing payload missing category %q", category)
		}
	}

	rt, err := record.Decode()
	if err != nil {
		return domain.RateTable{}, err
	}
	if !SchemaValid(rt) {
		return domain.RateTable{}, fmt.Errorf("pricing payload failed sentinel validation")
	}
	return rt, nil
}
