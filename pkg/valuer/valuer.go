// Package valuer implements the market-value estimation engine: a pure,
// deterministic computation combining a listing's asking price, comparable
// sales, and diagnostic data into a confidence-scored valuation.
//
// The engine never refuses an estimate once inputs are validated. Missing
// comparables or diagnostics degrade the confidence score, not the result.
package valuer

import (
	"errors"
	"math"
	"sort"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// ErrInvalidListing is returned when the listing is missing or its asking
// price is not positive. This is the engine's only failure mode.
var ErrInvalidListing = errors.New("listing missing or price not positive")

// MarketStats is the aggregation of a comparable-sale set.
type MarketStats struct {
	Average     float64
	Min         float64
	Max         float64
	SampleCount int
}

// Aggregate reduces a comparable-sale set to its average and min/max range.
// The set is ordered by recency and capped at the policy's ComparableCap
// before averaging. An empty set yields all zeros; the composer falls back
// to the listing's own price in that case.
func Aggregate(comps []domain.ComparableSale, limit int) MarketStats {
	if len(comps) == 0 {
		return MarketStats{}
	}

	// Most recent first. Ties broken arbitrarily.
	sorted := make([]domain.ComparableSale, len(comps))
	copy(sorted, comps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	n := len(sorted)
	if limit > 0 && n > limit {
		sorted = sorted[:limit]
	}

	stats := MarketStats{
		Min:         sorted[0].MarketPrice,
		Max:         sorted[0].MarketPrice,
		SampleCount: n,
	}

	var sum float64
	for _, c := range sorted {
		sum += c.MarketPrice
		if c.MarketPrice < stats.Min {
			stats.Min = c.MarketPrice
		}
		if c.MarketPrice > stats.Max {
			stats.Max = c.MarketPrice
		}
	}
	stats.Average = sum / float64(len(sorted))

	return stats
}

// ConditionMultiplier maps the latest diagnostic report to a multiplicative
// adjustment: the condition-label base factor times a floored battery factor.
// Without a report the multiplier is exactly 1.0; the battery floor only
// applies when a report exists.
func ConditionMultiplier(diag *domain.DiagnosticReport, p Policy) float64 {
	if diag == nil {
		return NeutralFactor
	}

	base := p.conditionFactor(diag.OverallCondition)
	battery := math.Max(p.BatteryFloor, float64(diag.BatteryHealth)/100)

	return base * battery
}

// Confidence scores estimate reliability from the size of the comparable set
// and diagnostic availability. It returns the raw fraction (which can exceed
// 1.0 when the comparable cap meets the diagnostic bonus) and the percent
// clamped to 100 that clients see.
func Confidence(n int, hasDiag bool, p Policy) (raw float64, percent int) {
	raw = p.ConfidenceBase
	if n > 0 {
		raw = math.Min(p.ConfidenceCap, p.ConfidenceBase+float64(n)*p.ConfidenceStep)
	}
	if hasDiag {
		raw += p.DiagnosticBonus
	}

	percent = int(math.Round(raw * 100))
	if percent > 100 {
		percent = 100
	}

	return raw, percent
}

// Estimate computes the full valuation for a listing. Comparables should be
// pre-filtered to the listing's category and brand; diag may be nil.
//
// The invariant finalValue == baseMarketValue * conditionMultiplier holds to
// the whole-unit rounding applied to monetary outputs.
func Estimate(
	listing *domain.Listing,
	comps []domain.ComparableSale,
	diag *domain.DiagnosticReport,
	p Policy,
) (*domain.ValuationResult, error) {
	if listing == nil || listing.Price <= 0 {
		return nil, ErrInvalidListing
	}

	stats := Aggregate(comps, p.ComparableCap)

	base := listing.Price
	if stats.SampleCount > 0 {
		base = stats.Average
	}

	multiplier := ConditionMultiplier(diag, p)
	raw, percent := Confidence(stats.SampleCount, diag != nil, p)

	result := &domain.ValuationResult{
		BaseMarketValue:     roundUnit(base),
		MarketAverage:       roundUnit(stats.Average),
		MarketRange:         domain.MarketRange{Min: roundUnit(stats.Min), Max: roundUnit(stats.Max)},
		ConditionMultiplier: multiplier,
		ConditionAdjustment: roundUnit(base * (multiplier - 1)),
		FinalValue:          roundUnit(base * multiplier),
		Confidence:          percent,
		SampleCount:         stats.SampleCount,
		RawConfidence:       raw,
		Factors: domain.ValuationFactors{
			Condition: multiplier,
			Category:  p.CategoryFactor(listing.Category),
		},
	}

	if diag != nil {
		battery := diag.BatteryHealth
		perf := diag.PerformanceScore
		result.Factors.BatteryHealth = &battery
		result.Factors.PerformanceScore = &perf
	} else if listing.BatteryHealth != nil {
		battery := *listing.BatteryHealth
		result.Factors.BatteryHealth = &battery
	}

	return result, nil
}

// roundUnit rounds a monetary value to the nearest whole unit, matching the
// granularity of the stored analysis records.
func roundUnit(v float64) float64 {
	return math.Round(v)
}
