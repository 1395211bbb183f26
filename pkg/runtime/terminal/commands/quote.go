package commands

import (
	"context"
	"fmt"
	"time"

	handlers "github.com/de-tools/power-quote/pkg/handlers/quote"
	"github.com/de-tools/power-quote/pkg/models/domain"
	"github.com/de-tools/power-quote/pkg/runtime/terminal/export"

	"github.com/spf13/cobra"
)

type QuoteCmd struct {
	storagePowerMW float64
	durationHours  float64
	solarMW        float64
	windMW         float64
	generatorMW    float64
	generatorFuel  string
	gridConnection string
	industryTag    string
	locationTag    string
	level2Ports    int
	dcfcPorts      int

	svc      handlers.Service
	reporter *export.Reporter
}

func NewQuoteCmd(svc handlers.Service, reporter *export.Reporter) *cobra.Command {
	qc := &QuoteCmd{svc: svc, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Generate an equipment quote from sizing inputs",
		RunE:  qc.run,
	}

	cmd.Flags().Float64Var(&qc.storagePowerMW, "power", 0, "Storage power (MW)")
	cmd.Flags().Float64Var(&qc.durationHours, "duration", 0, "Storage duration (hours)")
	cmd.Flags().Float64Var(&qc.solarMW, "solar", 0, "Solar capacity (MW)")
	cmd.Flags().Float64Var(&qc.windMW, "wind", 0, "Wind capacity (MW)")
	cmd.Flags().Float64Var(&qc.generatorMW, "generator", 0, "Generator capacity (MW)")
	cmd.Flags().StringVar(&qc.generatorFuel, "fuel", "diesel", "Generator fuel (diesel, natural-gas)")
	cmd.Flags().StringVar(&qc.gridConnection, "grid", "on-grid", "Grid connection (on-grid, off-grid, limited)")
	cmd.Flags().StringVar(&qc.industryTag, "industry", "", "Industry tag for feasibility checks")
	cmd.Flags().StringVar(&qc.locationTag, "location", "", "Location tag")
	cmd.Flags().IntVar(&qc.level2Ports, "ev-l2", 0, "EV Level 2 charging ports")
	cmd.Flags().IntVar(&qc.dcfcPorts, "ev-dcfc", 0, "EV DC fast charging ports")

	return cmd
}

func (qc *QuoteCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	req := domain.SizingRequest{
		StoragePowerMW: qc.storagePowerMW,
		DurationHours:  qc.durationHours,
		SolarMW:        qc.solarMW,
		WindMW:         qc.windMW,
		GeneratorMW:    qc.generatorMW,
		GeneratorFuel:  domain.GeneratorFuel(qc.generatorFuel),
		GridConnection: domain.GridConnection(qc.gridConnection),
		IndustryTag:    qc.industryTag,
		LocationTag:    qc.locationTag,
	}
	if qc.level2Ports > 0 || qc.dcfcPorts > 0 {
		req.EV = &domain.EVRequest{Level2Ports: qc.level2Ports, DCFCPorts: qc.dcfcPorts}
	}

	if !req.Meaningful() {
		return fmt.Errorf("at least one of storage/solar/wind/generator capacity must be non-zero")
	}

	quote, err := qc.svc.GenerateQuote(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate quote: %w", err)
	}

	return qc.reporter.Handle(quote)
}
