package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/de-tools/power-quote/pkg/runtime/terminal"
	"github.com/de-tools/power-quote/pkg/services/config"
	"github.com/de-tools/power-quote/pkg/services/pricing"
	"github.com/de-tools/power-quote/pkg/services/quote"
	"github.com/de-tools/power-quote/pkg/store/duckdb"
	duckdbpricing "github.com/de-tools/power-quote/pkg/store/duckdb/pricing"
	warehousepricing "github.com/de-tools/power-quote/pkg/store/warehouse/pricing"
	sf "github.com/snowflakedb/gosnowflake"
)

func main() {
	svc, err := buildQuoteService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli := terminal.NewCLI(terminal.Options{
		Quote:  svc,
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildQuoteService() (*quote.Controller, error) {
	cfg, err := config.LoadApp(os.Getenv("POWER_QUOTE_CONFIG"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.CachePath})
	if err != nil {
		return nil, fmt.Errorf("failed to open local pricing cache: %w", err)
	}

	local, err := duckdbpricing.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create local pricing store: %w", err)
	}

	// The warehouse is optional; without it the CLI runs on the
	// local-cache and defaults tiers.
	var remote warehousepricing.Store
	if cfg.WarehouseProfiles != "" {
		remote, err = openWarehouse(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: remote pricing store unavailable: %v\n", err)
		}
	}

	resolver := pricing.NewResolver(pricing.Options{
		Remote:        remote,
		Local:         local,
		TTL:           cfg.RatesTTL,
		RemoteTimeout: cfg.RemoteTimeout,
	})

	return quote.NewController(resolver), nil
}

func openWarehouse(cfg *config.App) (warehousepricing.Store, error) {
	registry, err := config.NewRegistry(cfg.WarehouseProfiles)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouse profiles: %w", err)
	}

	sfCfg, err := registry.GetConfig(context.Background(), cfg.WarehouseProfile)
	if err != nil {
		return nil, err
	}

	dsn, err := sf.DSN(sfCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return warehousepricing.NewStore(db)
}
