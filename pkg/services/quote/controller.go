package quote

import (
	"context"
	"fmt"

	"github.com/de-tools/power-quote/pkg/models/domain"
	"github.com/de-tools/power-quote/pkg/services/feasibility"
	"github.com/de-tools/power-quote/pkg/services/pricing"
	"github.com/de-tools/power-quote/pkg/services/sizing"
	"github.com/rs/zerolog"
)

// Controller is the quote pipeline: resolve pricing, size equipment,
// annotate feasibility. Pricing provenance rides along on every quote so
// callers can tell a live quote from one produced on fallback pricing.
type Controller struct {
	resolver  *pricing.Resolver
	calc      *sizing.Calculator
	annotator *feasibility.Annotator
}

func NewController(resolver *pricing.Resolver) *Controller {
	return &Controller{
		resolver:  resolver,
		calc:      sizing.NewCalculator(),
		annotator: feasibility.NewAnnotator(),
	}
}

func (c *Controller) GenerateQuote(ctx context.Context, req domain.SizingRequest) (*domain.Quote, error) {
	logger := zerolog.Ctx(ctx)

	cfg := c.resolver.Resolve(ctx)

	breakdown, err := c.calc.Calculate(req, cfg.Rates)
	if err != nil {
		return nil, fmt.Errorf("sizing calculation failed: %w", err)
	}

	c.annotator.Annotate(breakdown, req)

	if len(breakdown.OmittedCategories) > 0 {
		logger.Warn().
			Strs("categories", breakdown.OmittedCategories).
			Str("rate_version", cfg.Rates.Version).
			Msg("quote produced with unpriced categories")
	}

	return &domain.Quote{
		Request:     req,
		Breakdown:   *breakdown,
		RateVersion: cfg.Rates.Version,
		SourceTier:  cfg.SourceTier,
		Stale:       cfg.Stale(),
		GeneratedAt: cfg.FetchedAt,
	}, nil
}

// CurrentRates exposes the resolved configuration for the admin surface.
func (c *Controller) CurrentRates(ctx context.Context) domain.ResolvedConfiguration {
	return c.resolver.Resolve(ctx)
}

// UpdateRates applies an administrative patch and reports where it landed.
func (c *Controller) UpdateRates(ctx context.Context, patch domain.RateTablePatch) (domain.SourceTier, domain.ResolvedConfiguration, error) {
	tier, err := c.resolver.Update(ctx, patch)
	if err != nil {
		return "", domain.ResolvedConfiguration{}, err
	}
	return tier, c.resolver.Resolve(ctx), nil
}

// RefreshRates forces the next resolution to re-run the full source chain.
func (c *Controller) RefreshRates(ctx context.Context) domain.ResolvedConfiguration {
	c.resolver.Invalidate()
	return c.resolver.Resolve(ctx)
}
