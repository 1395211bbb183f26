package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/power-quote/pkg/models/api"
	"github.com/de-tools/power-quote/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GenerateQuote(ctx context.Context, req domain.SizingRequest) (*domain.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *mockService) CurrentRates(ctx context.Context) domain.ResolvedConfiguration {
	args := m.Called(ctx)
	return args.Get(0).(domain.ResolvedConfiguration)
}

func (m *mockService) UpdateRates(
	ctx context.Context,
	patch domain.RateTablePatch,
) (domain.SourceTier, domain.ResolvedConfiguration, error) {
	args := m.Called(ctx, patch)
	return args.Get(0).(domain.SourceTier), args.Get(1).(domain.ResolvedConfiguration), args.Error(2)
}

func (m *mockService) RefreshRates(ctx context.Context) domain.ResolvedConfiguration {
	args := m.Called(ctx)
	return args.Get(0).(domain.ResolvedConfiguration)
}

func sampleQuote() *domain.Quote {
	return &domain.Quote{
		Breakdown: domain.EquipmentBreakdown{
			Storage: &domain.CategoryLine{
				Category:  domain.CategoryStorage,
				Quantity:  3,
				Unit:      "modules",
				UnitCost:  380,
				TotalCost: 3_040_000,
			},
			Installation: domain.InstallationCosts{BOS: 364_800, EPC: 547_200, Contingency: 243_200},
			Totals: domain.Totals{
				EquipmentCost:    3_040_000,
				InstallationCost: 1_155_200,
				TotalProjectCost: 4_195_200,
			},
		},
		RateVersion: "2.1.0",
		SourceTier:  domain.SourceRemote,
		GeneratedAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestHandler_CreateQuote(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc)

	svc.On("GenerateQuote", mock.Anything, mock.MatchedBy(func(req domain.SizingRequest) bool {
		return req.StoragePowerMW == 2 && req.GridConnection == domain.GridOff
	})).Return(sampleQuote(), nil)

	body, _ := json.Marshal(api.QuoteRequest{
		StoragePowerMW: 2,
		DurationHours:  4,
		GridConnection: "off-grid",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateQuote(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var response api.QuoteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response.Lines, 1)
	assert.Equal(t, "storage", response.Lines[0].Category)
	assert.Equal(t, 4_195_200.0, response.Totals.TotalProjectCost)
	assert.Equal(t, "2.1.0", response.RateVersion)
	assert.Equal(t, "remote", response.SourceTier)
	svc.AssertExpectations(t)
}

func TestHandler_CreateQuote_InvalidBody(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.CreateQuote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GenerateQuote")
}

func TestHandler_CreateQuote_RejectedRequest(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc)

	svc.On("GenerateQuote", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("invalid sizing request: storage power must be a non-negative number, got -1"))

	body, _ := json.Marshal(api.QuoteRequest{StoragePowerMW: -1, GridConnection: "on-grid"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateQuote(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var response api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Contains(t, response.Error, "storage power")
}

func TestHandler_GetRates(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc)

	cfg := domain.ResolvedConfiguration{
		Rates:      domain.RateTable{Version: "2.1.0"},
		SourceTier: domain.SourceLocal,
		FetchedAt:  time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
	svc.On("CurrentRates", mock.Anything).Return(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	rec := httptest.NewRecorder()

	h.GetRates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var response api.RatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "2.1.0", response.Version)
	assert.Equal(t, "local", response.SourceTier)
	assert.True(t, response.Stale)
}

func TestHandler_UpdateRates(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc)

	cfg := domain.ResolvedConfiguration{
		Rates:      domain.RateTable{Version: "2.1.1"},
		SourceTier: domain.SourceRemote,
	}
	svc.On("UpdateRates", mock.Anything, mock.MatchedBy(func(patch domain.RateTablePatch) bool {
		return patch.UpdatedBy == "admin" && patch.Generators != nil
	})).Return(domain.SourceRemote, cfg, nil)

	body, _ := json.Marshal(api.UpdateRatesRequest{
		UpdatedBy:  "admin",
		Generators: &domain.GeneratorRates{DieselCostPerKW: 850, NaturalGasCostPerKW: 975},
	})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rates", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.UpdateRates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response api.UpdateRatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "2.1.1", response.Version)
	assert.Equal(t, "remote", response.PersistedTo)
	svc.AssertExpectations(t)
}

func TestHandler_UpdateRates_InvalidPatch(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc)

	svc.On("UpdateRates", mock.Anything, mock.Anything).
		Return(domain.SourceTier(""), domain.ResolvedConfiguration{}, fmt.Errorf("merged rate table failed validation"))

	body, _ := json.Marshal(api.UpdateRatesRequest{UpdatedBy: "admin"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rates", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.UpdateRates(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandler_RefreshRates(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc)

	cfg := domain.ResolvedConfiguration{
		Rates:      domain.RateTable{Version: "2.2.0"},
		SourceTier: domain.SourceRemote,
	}
	svc.On("RefreshRates", mock.Anything).Return(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", nil)
	rec := httptest.NewRecorder()

	h.RefreshRates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response api.RatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "2.2.0", response.Version)
	assert.False(t, response.Stale)
}
