package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/power-quote/pkg/models/store"
)

// DefaultSlot is the single named slot holding the last-known-good RateTable.
const DefaultSlot = "current"

var ErrEmpty = errors.New("pricing cache slot is empty")

// Store is the local persisted cache: one named slot, overwritten on every
// successful remote resolution and cleared when a remote write supersedes it.
// Only the resolver touches it.
type Store interface {
	Get(ctx context.Context) (*store.PricingRecord, error)
	Put(ctx context.Context, record store.PricingRecord) error
	Clear(ctx context.Context) error
}

type cacheStore struct {
	db   *sql.DB
	slot string
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &cacheStore{db: db, slot: DefaultSlot}, nil
}

func (s *cacheStore) Get(ctx context.Context) (*store.PricingRecord, error) {
	query := `
		SELECT payload, version, updated_at, updated_by, notes
		FROM pricing_cache
		WHERE slot = ?`

	var record store.PricingRecord
	var payload string
	var updatedBy, notes sql.NullString

	err := s.db.QueryRowContext(ctx, query, s.slot).Scan(
		&payload,
		&record.Version,
		&record.UpdatedAt,
		&updatedBy,
		&notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read pricing cache: %w", err)
	}

	record.Payload = []byte(payload)
	record.UpdatedBy = updatedBy.String
	record.Notes = notes.String
	return &record, nil
}

func (s *cacheStore) Put(ctx context.Context, record store.PricingRecord) error {
	query := `
		INSERT OR REPLACE INTO pricing_cache (slot, payload, version, updated_at, updated_by, notes, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`

	_, err := s.db.ExecContext(ctx, query,
		s.slot,
		string(record.Payload),
		record.Version,
		record.UpdatedAt,
		record.UpdatedBy,
		record.Notes,
	)
	if err != nil {
		return fmt.Errorf("write pricing cache: %w", err)
	}
	return nil
}

func (s *cacheStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pricing_cache WHERE slot = ?`, s.slot)
	if err != nil {
		return fmt.Errorf("clear pricing cache: %w", err)
	}
	return nil
}
