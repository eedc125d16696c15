// Package engine orchestrates comparable ingestion, valuation, and alerting.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gearmarket/market-appraiser/internal/marketdata"
	"github.com/gearmarket/market-appraiser/internal/metrics"
	"github.com/gearmarket/market-appraiser/internal/notify"
	"github.com/gearmarket/market-appraiser/internal/store"
	domain "github.com/gearmarket/market-appraiser/pkg/types"
	"github.com/gearmarket/market-appraiser/pkg/valuer"
)

const (
	defaultFetchLimit       = 50
	defaultRevaluationBatch = 100
)

// Engine orchestrates ingestion, valuation, and alerting.
type Engine struct {
	store    store.Store
	feed     marketdata.Client
	notifier notify.Notifier
	log      *slog.Logger

	policy           valuer.Policy
	staleAfter       time.Duration
	alertsEnabled    bool
	minDiscountPct   float64
	fetchLimit       int
	revaluationBatch int
	staggerOffset    time.Duration
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	feed marketdata.Client,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:            s,
		feed:             feed,
		notifier:         n,
		log:              slog.Default(),
		policy:           valuer.DefaultPolicy(),
		staleAfter:       24 * time.Hour,
		minDiscountPct:   15.0,
		fetchLimit:       defaultFetchLimit,
		revaluationBatch: defaultRevaluationBatch,
		staggerOffset:    time.Second,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithPolicy overrides the default valuation policy.
func WithPolicy(p valuer.Policy) EngineOption {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithStaleAfter sets the age at which a stored analysis is considered stale.
func WithStaleAfter(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.staleAfter = d
	}
}

// WithAlerts enables deal alerts with the given minimum discount percentage.
func WithAlerts(minDiscountPct float64) EngineOption {
	return func(e *Engine) {
		e.alertsEnabled = true
		e.minDiscountPct = minDiscountPct
	}
}

// WithFetchLimit sets the page size for feed fetches.
func WithFetchLimit(n int) EngineOption {
	return func(e *Engine) {
		e.fetchLimit = n
	}
}

// WithStaggerOffset sets the delay between processing each tracked segment.
func WithStaggerOffset(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.staggerOffset = d
	}
}

// Policy returns the engine's active valuation policy.
func (eng *Engine) Policy() valuer.Policy {
	return eng.policy
}

// Appraise computes and persists a fresh market analysis for a listing.
// Comparables and the latest diagnostic are fetched concurrently; a listing
// with no diagnostic report is valued with a neutral multiplier.
func (eng *Engine) Appraise(ctx context.Context, listingID string) (*domain.MarketAnalysis, error) {
	listing, err := eng.store.GetListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("getting listing %s: %w", listingID, err)
	}

	var (
		comps []domain.ComparableSale
		diag  *domain.DiagnosticReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comps, err = eng.store.ListComparableSales(gctx, listing.Segment(), eng.policy.ComparableCap)
		if err != nil {
			return fmt.Errorf("listing comparables: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		d, err := eng.store.GetLatestDiagnostic(gctx, listingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("getting latest diagnostic: %w", err)
		}
		diag = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := valuer.Estimate(listing, comps, diag, eng.policy)
	if err != nil {
		return nil, fmt.Errorf("estimating value: %w", err)
	}

	position := valuer.ClassifyPosition(listing.Price, result.FinalValue, eng.policy)

	analysis := &domain.MarketAnalysis{
		ListingID: listingID,
		Result:    *result,
		Position:  position,
	}

	if err := eng.store.SaveAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}

	metrics.ValuationsTotal.Inc()
	metrics.ConfidenceDistribution.Observe(float64(result.Confidence))
	if result.SampleCount > 0 {
		metrics.ValuationsComparableBacked.Inc()
	} else {
		metrics.ValuationsColdStart.Inc()
	}

	eng.evaluateAlert(ctx, listing, analysis)

	return analysis, nil
}

func (eng *Engine) evaluateAlert(
	ctx context.Context,
	listing *domain.Listing,
	analysis *domain.MarketAnalysis,
) {
	if !eng.alertsEnabled || listing.Status != domain.StatusActive {
		return
	}
	if analysis.Position.Label != domain.PositionUnderpriced {
		return
	}
	if analysis.Position.DifferencePercentage == nil {
		return
	}

	discount := -*analysis.Position.DifferencePercentage
	if discount < eng.minDiscountPct {
		return
	}

	alert := &domain.DealAlert{
		ListingID:     listing.ID,
		FinalValue:    analysis.Result.FinalValue,
		AskingPrice:   listing.Price,
		DifferencePct: discount,
	}

	if err := eng.store.CreateAlert(ctx, alert); err != nil {
		eng.log.Error("creating alert failed", "listing", listing.ID, "error", err)
	}
}

// RunIngestion fetches fresh comparable sales for every tracked segment.
// The feed's daily quota stops the cycle early; alert processing still runs.
func (eng *Engine) RunIngestion(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.IngestionDuration.Observe(time.Since(start).Seconds())
	}()

	segments, err := eng.store.ListTrackedSegments(ctx)
	if err != nil {
		return fmt.Errorf("listing tracked segments: %w", err)
	}

	for i := range segments {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		seg := segments[i]
		eng.log.Info("ingesting segment", "category", seg.Category, "brand", seg.Brand)

		if err := eng.ingestSegment(ctx, seg); err != nil {
			if errors.Is(err, marketdata.ErrDailyLimitReached) {
				eng.log.Warn("daily feed limit reached, stopping ingestion",
					"category", seg.Category,
					"brand", seg.Brand,
				)
				break
			}
			eng.log.Error("segment ingestion failed",
				"category", seg.Category,
				"brand", seg.Brand,
				"error", err,
			)
			metrics.IngestionErrorsTotal.Inc()
			continue
		}

		// Stagger between segments to avoid feed bursts.
		if i < len(segments)-1 && eng.staggerOffset > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(eng.staggerOffset):
			}
		}
	}

	// Always process alerts, even if the feed quota was hit.
	if eng.alertsEnabled {
		if err := ProcessAlerts(ctx, eng.store, eng.notifier); err != nil {
			eng.log.Error("alert processing failed", "error", err)
		}
	}

	return nil
}

func (eng *Engine) ingestSegment(ctx context.Context, seg domain.Segment) error {
	resp, err := eng.feed.FetchSales(ctx, marketdata.FetchRequest{
		Category: string(seg.Category),
		Brand:    seg.Brand,
		Limit:    eng.fetchLimit,
	})
	if err != nil {
		return fmt.Errorf("fetching sales: %w", err)
	}

	sales := marketdata.ToComparableSales(resp.Sales)
	for i := range sales {
		if err := eng.store.InsertComparableSale(ctx, &sales[i]); err != nil {
			return fmt.Errorf("inserting comparable sale: %w", err)
		}
		metrics.IngestionComparablesTotal.Inc()
	}

	eng.log.Info("segment ingested",
		"category", seg.Category,
		"brand", seg.Brand,
		"sales", len(sales),
	)
	return nil
}

// RunRevaluation re-appraises active listings whose stored analysis is stale
// or missing. Individual failures are logged and skipped.
func (eng *Engine) RunRevaluation(ctx context.Context) error {
	ids, err := eng.store.ListStaleAnalysisListings(ctx, eng.staleAfter, eng.revaluationBatch)
	if err != nil {
		return fmt.Errorf("listing stale analyses: %w", err)
	}

	var revalued int
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := eng.Appraise(ctx, id); err != nil {
			eng.log.Error("revaluation failed", "listing", id, "error", err)
			continue
		}
		revalued++
	}

	eng.log.Info("revaluation complete", "candidates", len(ids), "revalued", revalued)
	return nil
}
