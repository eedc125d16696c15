package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gearmarket/market-appraiser/internal/config"
	"github.com/gearmarket/market-appraiser/internal/engine"
	"github.com/gearmarket/market-appraiser/internal/notify"
	"github.com/gearmarket/market-appraiser/internal/store"
	"github.com/gearmarket/market-appraiser/pkg/logger"
	"github.com/gearmarket/market-appraiser/pkg/valuer"
)

var appraiseCmd = &cobra.Command{
	Use:   "appraise <listing-id>",
	Short: "Run a one-shot valuation against the database",
	Long: "Computes and persists a fresh market analysis for a single listing,\n" +
		"talking directly to the database. Useful for debugging valuations\n" +
		"without the API server running.",
	Args: cobra.ExactArgs(1),
	RunE: runAppraise,
}

func init() {
	rootCmd.AddCommand(appraiseCmd)
}

func runAppraise(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), cfg.Database.PoolSize)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pg.Close()

	policy := valuer.DefaultPolicy()
	policy.ComparableCap = cfg.Valuation.ComparableCap
	policy.BatteryFloor = cfg.Valuation.BatteryFloor

	eng := engine.NewEngine(pg, buildFeed(cfg), notify.NewNoOpNotifier(log),
		engine.WithLogger(log),
		engine.WithPolicy(policy),
	)

	analysis, err := eng.Appraise(ctx, args[0])
	if err != nil {
		return fmt.Errorf("appraising listing %s: %w", args[0], err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}
