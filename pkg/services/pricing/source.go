package pricing

import (
	"context"
	"time"

	"github.com/de-tools/power-quote/pkg/models/domain"
	duckdbpricing "github.com/de-tools/power-quote/pkg/store/duckdb/pricing"
	warehousepricing "github.com/de-tools/power-quote/pkg/store/warehouse/pricing"
	"github.com/rs/zerolog"
)

type Status int

const (
	// StatusOK means the source yielded a schema-valid table.
	StatusOK Status = iota
	// StatusUnavailable covers network errors, missing tables and timeouts.
	StatusUnavailable
	// StatusInvalid means the source answered but its data failed validation.
	// The chain treats it the same as unavailable; it is kept distinct so
	// logs and tests can tell the two apart.
	StatusInvalid
)

type Result struct {
	Status Status
	Rates  domain.RateTable
}

func ok(rt domain.RateTable) Result { return Result{Status: StatusOK, Rates: rt} }
func unavailable() Result           { return Result{Status: StatusUnavailable} }
func invalid() Result               { return Result{Status: StatusInvalid} }

// Source is one tier of the fallback chain. Fetch never panics and never
// returns an error; anything that goes wrong maps to a non-OK status.
type Source interface {
	Tier() domain.SourceTier
	Fetch(ctx context.Context) Result
}

type remoteSource struct {
	store   warehousepricing.Store
	timeout time.Duration
}

func (s *remoteSource) Tier() domain.SourceTier { return domain.SourceRemote }

func (s *remoteSource) Fetch(ctx context.Context) Result {
	logger := zerolog.Ctx(ctx)

	// A slow warehouse must not block resolution; past the deadline it is
	// just another unavailable source.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record, err := s.store.GetActive(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("remote pricing source unavailable")
		return unavailable()
	}

	rt, err := DecodeValidRecord(record)
	if err != nil {
		logger.Warn().Err(err).Str("version", record.Version).
			Msg("remote pricing record rejected")
		return invalid()
	}
	return ok(rt)
}

type localSource struct {
	store duckdbpricing.Store
}

func (s *localSource) Tier() domain.SourceTier { return domain.SourceLocal }

func (s *localSource) Fetch(ctx context.Context) Result {
	logger := zerolog.Ctx(ctx)

	record, err := s.store.Get(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("local pricing cache unavailable")
		return unavailable()
	}

	rt, err := DecodeValidRecord(record)
	if err != nil {
		logger.Warn().Err(err).Str("version", record.Version).
			Msg("local pricing cache rejected")
		return invalid()
	}
	return ok(rt)
}

type defaultSource struct{}

func (s *defaultSource) Tier() domain.SourceTier { return domain.SourceDefault }

func (s *defaultSource) Fetch(_ context.Context) Result {
	return ok(DefaultRateTable())
}
