package quote

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/de-tools/power-quote/pkg/models/api"
	"github.com/de-tools/power-quote/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Service is the quote pipeline surface the handler needs.
type Service interface {
	GenerateQuote(ctx context.Context, req domain.SizingRequest) (*domain.Quote, error)
	CurrentRates(ctx context.Context) domain.ResolvedConfiguration
	UpdateRates(ctx context.Context, patch domain.RateTablePatch) (domain.SourceTier, domain.ResolvedConfiguration, error)
	RefreshRates(ctx context.Context) domain.ResolvedConfiguration
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.svc.GenerateQuote(ctx, toSizingRequest(req))
	if err != nil {
		// Calculation errors indicate a caller bug (negative inputs),
		// not an environmental issue.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, toQuoteResponse(quote)); err != nil {
		logger.Error().Err(err).Msg("failed to encode quote")
	}
}

func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	cfg := h.svc.CurrentRates(ctx)
	if err := writeJSON(w, http.StatusOK, toRatesResponse(cfg)); err != nil {
		logger.Error().Err(err).Msg("failed to encode rates")
	}
}

func (h *Handler) UpdateRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.UpdateRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tier, cfg, err := h.svc.UpdateRates(ctx, req.ToPatch())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	response := api.UpdateRatesResponse{
		Version:     cfg.Rates.Version,
		PersistedTo: string(tier),
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to encode rates update result")
	}
}

func (h *Handler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	cfg := h.svc.RefreshRates(ctx)
	if err := writeJSON(w, http.StatusOK, toRatesResponse(cfg)); err != nil {
		logger.Error().Err(err).Msg("failed to encode refreshed rates")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, api.ErrorResponse{Error: message})
}
