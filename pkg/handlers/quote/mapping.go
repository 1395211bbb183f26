package quote

import (
	"github.com/de-tools/power-quote/pkg/models/api"
	"github.com/de-tools/power-quote/pkg/models/domain"
)

func toSizingRequest(req api.QuoteRequest) domain.SizingRequest {
	out := domain.SizingRequest{
		StoragePowerMW: req.StoragePowerMW,
		DurationHours:  req.DurationHours,
		SolarMW:        req.SolarMW,
		WindMW:         req.WindMW,
		GeneratorMW:    req.GeneratorMW,
		GeneratorFuel:  domain.GeneratorFuel(req.GeneratorFuel),
		GridConnection: domain.GridConnection(req.GridConnection),
		IndustryTag:    req.IndustryTag,
		LocationTag:    req.LocationTag,
	}
	if req.EV != nil {
		out.EV = &domain.EVRequest{
			Level2Ports: req.EV.Level2Ports,
			DCFCPorts:   req.EV.DCFCPorts,
		}
	}
	return out
}

func toQuoteResponse(q *domain.Quote) api.QuoteResponse {
	response := api.QuoteResponse{
		OmittedCategories: q.Breakdown.OmittedCategories,
		Installation: api.InstallationCosts{
			BOS:         q.Breakdown.Installation.BOS,
			EPC:         q.Breakdown.Installation.EPC,
			Contingency: q.Breakdown.Installation.Contingency,
		},
		Totals: api.Totals{
			EquipmentCost:    q.Breakdown.Totals.EquipmentCost,
			InstallationCost: q.Breakdown.Totals.InstallationCost,
			TotalProjectCost: q.Breakdown.Totals.TotalProjectCost,
		},
		RateVersion: q.RateVersion,
		SourceTier:  string(q.SourceTier),
		Stale:       q.Stale,
		GeneratedAt: q.GeneratedAt,
	}
	for _, line := range q.Breakdown.Lines() {
		response.Lines = append(response.Lines, toCategoryLine(line))
	}
	return response
}

func toCategoryLine(line *domain.CategoryLine) api.CategoryLine {
	out := api.CategoryLine{
		Category:    line.Category,
		Quantity:    line.Quantity,
		Unit:        line.Unit,
		UnitCost:    line.UnitCost,
		TotalCost:   line.TotalCost,
		Description: line.Description,
	}
	if line.Feasibility != nil {
		out.Feasibility = &api.FeasibilityNote{
			IsFeasible:        line.Feasibility.IsFeasible,
			Mount:             line.Feasibility.Mount,
			RequiredAreaAcres: line.Feasibility.RequiredAreaAcres,
			MaxAreaAcres:      line.Feasibility.MaxAreaAcres,
			Suggestions:       line.Feasibility.Suggestions,
		}
	}
	return out
}

func toRatesResponse(cfg domain.ResolvedConfiguration) api.RatesResponse {
	return api.RatesResponse{
		Version:     cfg.Rates.Version,
		LastUpdated: cfg.Rates.LastUpdated,
		UpdatedBy:   cfg.Rates.UpdatedBy,
		SourceTier:  string(cfg.SourceTier),
		Stale:       cfg.Stale(),
		FetchedAt:   cfg.FetchedAt,
		ExpiresAt:   cfg.ExpiresAt,
		Rates:       cfg.Rates,
	}
}
