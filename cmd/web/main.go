package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"

	"github.com/de-tools/power-quote/pkg/models/domain"
	"github.com/de-tools/power-quote/pkg/server"
	"github.com/de-tools/power-quote/pkg/services/config"
	"github.com/de-tools/power-quote/pkg/services/pricing"
	"github.com/de-tools/power-quote/pkg/services/quote"
	"github.com/de-tools/power-quote/pkg/store/duckdb"
	duckdbpricing "github.com/de-tools/power-quote/pkg/store/duckdb/pricing"
	warehousepricing "github.com/de-tools/power-quote/pkg/store/warehouse/pricing"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the quoting web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the application config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadApp(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.CachePath})
	if err != nil {
		return fmt.Errorf("failed to open local pricing cache: %w", err)
	}

	local, err := duckdbpricing.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create local pricing store: %w", err)
	}

	var remote warehousepricing.Store
	if cfg.WarehouseProfiles != "" {
		remote, err = openWarehouse(ctx, cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("remote pricing store unavailable, running on fallback tiers")
		}
	} else {
		logger.Warn().Msg("no warehouse profile configured, running on fallback tiers")
	}

	resolver := pricing.NewResolver(pricing.Options{
		Remote:        remote,
		Local:         local,
		TTL:           cfg.RatesTTL,
		RemoteTimeout: cfg.RemoteTimeout,
	})

	resolver.OnChange(func(c domain.ResolvedConfiguration) {
		logger.Info().
			Str("version", c.Rates.Version).
			Str("persisted_to", string(c.SourceTier)).
			Msg("pricing configuration changed")
	})

	svc := quote.NewController(resolver)

	initial := resolver.Resolve(ctx)
	logger.Info().
		Str("version", initial.Rates.Version).
		Str("source_tier", string(initial.SourceTier)).
		Msg("pricing configuration resolved")

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Quote: svc,
		},
	})

	return webAPI.Start()
}

func openWarehouse(ctx context.Context, cfg *config.App) (warehousepricing.Store, error) {
	registry, err := config.NewRegistry(cfg.WarehouseProfiles)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouse profiles: %w", err)
	}

	sfCfg, err := registry.GetConfig(ctx, cfg.WarehouseProfile)
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
