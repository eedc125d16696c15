package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/gearmarket/market-appraiser/internal/api"
	"github.com/gearmarket/market-appraiser/internal/config"
	"github.com/gearmarket/market-appraiser/internal/engine"
	"github.com/gearmarket/market-appraiser/internal/marketdata"
	"github.com/gearmarket/market-appraiser/internal/notify"
	"github.com/gearmarket/market-appraiser/internal/store"
	"github.com/gearmarket/market-appraiser/pkg/logger"
	"github.com/gearmarket/market-appraiser/pkg/valuer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), cfg.Database.PoolSize)
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pg.Close()

	var st store.Store = pg
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		st = store.NewCachedStore(pg, rdb, cfg.Redis.TTL)
		log.Info("redis cache enabled", "addr", cfg.Redis.Addr)
	}

	feed := buildFeed(cfg)
	notifier := buildNotifier(cfg, log)

	policy := valuer.DefaultPolicy()
	policy.ComparableCap = cfg.Valuation.ComparableCap
	policy.BatteryFloor = cfg.Valuation.BatteryFloor

	engineOpts := []engine.EngineOption{
		engine.WithLogger(log),
		engine.WithPolicy(policy),
		engine.WithStaleAfter(cfg.Valuation.StaleAfter),
	}
	if cfg.Alerts.Enabled {
		engineOpts = append(engineOpts, engine.WithAlerts(cfg.Alerts.MinDiscountPct))
	}
	eng := engine.NewEngine(st, feed, notifier, engineOpts...)

	srv := api.NewServer(&cfg.Server, st, eng, log)

	var sched *engine.Scheduler
	if cfg.MarketData.BaseURL != "" {
		sched, err = engine.NewScheduler(
			eng,
			cfg.Schedule.IngestionInterval,
			cfg.Schedule.RevaluationInterval,
			log,
		)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
	} else {
		log.Warn("market data feed not configured, background jobs disabled")
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	if sched != nil {
		<-sched.Stop().Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func buildFeed(cfg *config.Config) marketdata.Client {
	limiter := marketdata.NewRateLimiter(
		cfg.MarketData.RateLimit.PerSecond,
		cfg.MarketData.RateLimit.Burst,
		cfg.MarketData.RateLimit.DailyLimit,
	)
	return marketdata.NewFeedClient(
		cfg.MarketData.BaseURL,
		cfg.MarketData.APIKey,
		marketdata.WithRateLimiter(limiter),
		marketdata.WithHTTPClient(&http.Client{Timeout: cfg.MarketData.Timeout}),
	)
}

func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if cfg.Notifications.Discord.Enabled {
		log.Info("discord notifications enabled")
		return notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
	}
	return notify.NewNoOpNotifier(log)
}
