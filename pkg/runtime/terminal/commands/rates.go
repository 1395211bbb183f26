package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	handlers "github.com/de-tools/power-quote/pkg/handlers/quote"
	"github.com/de-tools/power-quote/pkg/models/domain"

	"github.com/spf13/cobra"
)

func NewRatesCmd(svc handlers.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Inspect and update pricing assumptions",
	}

	cmd.AddCommand(newRatesShowCmd(svc))
	cmd.AddCommand(newRatesUpdateCmd(svc))
	cmd.AddCommand(newRatesRefreshCmd(svc))

	return cmd
}

func newRatesShowCmd(svc handlers.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the currently-resolved rate table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			cfg := svc.CurrentRates(ctx)

			fmt.Printf("Version:     %s\n", cfg.Rates.Version)
			fmt.Printf("Updated:     %s by %s\n",
				cfg.Rates.LastUpdated.Format("2006-01-02 15:04:05"), cfg.Rates.UpdatedBy)
			fmt.Printf("Source tier: %s", cfg.SourceTier)
			if cfg.Stale() {
				fmt.Printf(" (stale: remote store not used)")
			}
			fmt.Println()

			out, err := json.MarshalIndent(cfg.Rates, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render rates: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newRatesUpdateCmd(svc handlers.Service) *cobra.Command {
	var patchFile string
	var updatedBy string
	var notes string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Apply a rate table patch from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			data, err := os.ReadFile(patchFile)
			if err != nil {
				return fmt.Errorf("failed to read patch file: %w", err)
			}

			var patch domain.RateTablePatch
			if err := json.Unmarshal(data, &patch); err != nil {
				return fmt.Errorf("failed to parse patch file: %w", err)
			}
			if updatedBy != "" {
				patch.UpdatedBy = updatedBy
			}
			if notes != "" {
				patch.Notes = notes
			}

			tier, cfg, err := svc.UpdateRates(ctx, patch)
			if err != nil {
				return fmt.Errorf("failed to update rates: %w", err)
			}

			fmt.Printf("Rates updated to version %s (persisted to %s)\n", cfg.Rates.Version, tier)
			return nil
		},
	}

	cmd.Flags().StringVar(&patchFile, "file", "", "Path to a JSON rate table patch")
	cmd.Flags().StringVar(&updatedBy, "by", "", "Provenance marker for the update")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text notes for the update")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newRatesRefreshCmd(svc handlers.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Invalidate the cache and re-run the full source chain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			cfg := svc.RefreshRates(ctx)
			fmt.Printf("Resolved rates v%s from %s tier\n", cfg.Rates.Version, cfg.SourceTier)
			return nil
		},
	}
}
