package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/power-quote/pkg/models/store"
)

var ErrNoActiveRecord = errors.New("no active pricing record")

// Store reads and writes pricing records in the company pricing warehouse.
// Read returns the single active, most-recently-updated record; write
// deactivates the previous active row and inserts the new one in a single
// transaction so there is never more than one active record.
type Store interface {
	GetActive(ctx context.Context) (*store.PricingRecord, error)
	Upsert(ctx context.Context, record store.PricingRecord) error
}

type warehouseStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &warehouseStore{db: db}, nil
}

func (s *warehouseStore) GetActive(ctx context.Context) (*store.PricingRecord, error) {
	query := `
		SELECT payload, version, updated_at, updated_by, notes
		FROM pricing_config
		WHERE is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1`

	var record store.PricingRecord
	var payload string
	var updatedBy, notes sql.NullString

	err := s.db.QueryRowContext(ctx, query).Scan(
		&payload,
		&record.Version,
		&record.UpdatedAt,
		&updatedBy,
		&notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveRecord
	}
	if err != nil {
		return nil, fmt.Errorf("query active pricing record: %w", err)
	}

	record.Payload = []byte(payload)
	record.UpdatedBy = updatedBy.String
	record.Notes = notes.String
	return &record, nil
}

func (s *warehouseStore) Upsert(ctx context.Context, record store.PricingRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pricing upsert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `UPDATE pricing_config SET is_active = FALSE WHERE is_active = TRUE`)
	if err != nil {
		return fmt.Errorf("deactivate previous pricing record: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pricing_config (payload, version, updated_at, updated_by, notes, is_active)
		VALUES (?, ?, ?, ?, ?, TRUE)`,
		string(record.Payload),
		record.Version,
		record.UpdatedAt,
		record.UpdatedBy,
		record.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert pricing record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pricing upsert: %w", err)
	}
	return nil
}
