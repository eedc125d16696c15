package valuer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

func comps(prices ...float64) []domain.ComparableSale {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]domain.ComparableSale, len(prices))
	for i, p := range prices {
		p := p
		out[i] = domain.ComparableSale{
			Category:    domain.CategoryElectronics,
			Brand:       "Acme",
			MarketPrice: p,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func diag(cond domain.DiagCondition, battery int) *domain.DiagnosticReport {
	return &domain.DiagnosticReport{
		BatteryHealth:    battery,
		PerformanceScore: 75,
		OverallCondition: cond,
	}
}

func testListing(price float64) *domain.Listing {
	return &domain.Listing{
		ID:       "listing-1",
		Title:    "Acme Phone 12",
		Price:    price,
		Currency: "USD",
		Category: domain.CategoryElectronics,
		Brand:    "Acme",
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prices   []float64
		limit    int
		wantAvg  float64
		wantMin  float64
		wantMax  float64
		wantSize int
	}{
		{
			name:     "three comparables",
			prices:   []float64{100, 200, 300},
			limit:    10,
			wantAvg:  200,
			wantMin:  100,
			wantMax:  300,
			wantSize: 3,
		},
		{
			name:  "empty set yields zeros",
			limit: 10,
		},
		{
			name:     "single comparable",
			prices:   []float64{150},
			limit:    10,
			wantAvg:  150,
			wantMin:  150,
			wantMax:  150,
			wantSize: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stats := Aggregate(comps(tt.prices...), tt.limit)
			assert.InDelta(t, tt.wantAvg, stats.Average, 0.001)
			assert.InDelta(t, tt.wantMin, stats.Min, 0.001)
			assert.InDelta(t, tt.wantMax, stats.Max, 0.001)
			assert.Equal(t, tt.wantSize, stats.SampleCount)
		})
	}
}

func TestAggregate_CapKeepsMostRecent(t *testing.T) {
	t.Parallel()

	// Twelve sales; the two oldest (100, 100) must fall outside the cap.
	prices := []float64{100, 100, 200, 200, 200, 200, 200, 200, 200, 200, 200, 200}
	stats := Aggregate(comps(prices...), 10)

	assert.InDelta(t, 200.0, stats.Average, 0.001, "capped average excludes oldest sales")
	assert.Equal(t, 12, stats.SampleCount, "sample count reflects the full filtered set")
}

func TestConditionMultiplier(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	tests := []struct {
		name string
		diag *domain.DiagnosticReport
		want float64
	}{
		{
			name: "no report is exactly neutral",
			want: 1.0,
		},
		{
			name: "excellent with full battery",
			diag: diag(domain.DiagExcellent, 100),
			want: 1.10,
		},
		{
			name: "battery floor applies at zero health",
			diag: diag(domain.DiagExcellent, 0),
			want: 0.55,
		},
		{
			name: "poor condition with floored battery",
			diag: diag(domain.DiagPoor, 30),
			want: 0.70 * 0.5,
		},
		{
			name: "fair condition with mid battery",
			diag: diag(domain.DiagFair, 80),
			want: 0.85 * 0.80,
		},
		{
			name: "unknown condition falls back to neutral factor",
			diag: diag(domain.DiagCondition("mint"), 100),
			want: 1.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.want, ConditionMultiplier(tt.diag, p), 0.0001)
		})
	}
}

func TestConfidence(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	tests := []struct {
		name        string
		n           int
		hasDiag     bool
		wantRaw     float64
		wantPercent int
	}{
		{name: "no data", n: 0, wantRaw: 0.5, wantPercent: 50},
		{name: "two comparables", n: 2, wantRaw: 0.6, wantPercent: 60},
		{name: "cap reached at eight", n: 8, wantRaw: 0.9, wantPercent: 90},
		{name: "cap holds beyond eight", n: 20, wantRaw: 0.9, wantPercent: 90},
		{name: "diagnostic only", n: 0, hasDiag: true, wantRaw: 0.7, wantPercent: 70},
		{name: "two comparables plus diagnostic", n: 2, hasDiag: true, wantRaw: 0.8, wantPercent: 80},
		{
			// The raw fraction can exceed 1.0; the percent clamps at 100.
			name:        "warm set plus diagnostic overflows raw",
			n:           8,
			hasDiag:     true,
			wantRaw:     1.1,
			wantPercent: 100,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, percent := Confidence(tt.n, tt.hasDiag, p)
			assert.InDelta(t, tt.wantRaw, raw, 0.0001)
			assert.Equal(t, tt.wantPercent, percent)
		})
	}
}

func TestConfidence_Monotonic(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	prev := -1.0
	for n := 0; n <= 12; n++ {
		raw, _ := Confidence(n, false, p)
		assert.GreaterOrEqual(t, raw, prev, "confidence must be non-decreasing in n")
		prev = raw

		withDiag, _ := Confidence(n, true, p)
		assert.Greater(t, withDiag, raw, "diagnostic presence must strictly raise confidence")
	}
}

func TestEstimate_EmptyComparablesIdentity(t *testing.T) {
	t.Parallel()

	listing := testListing(499)
	result, err := Estimate(listing, nil, nil, DefaultPolicy())
	require.NoError(t, err)

	assert.InDelta(t, listing.Price, result.FinalValue, 0.001,
		"no comparables and no diagnostic must return the asking price unchanged")
	assert.InDelta(t, listing.Price, result.BaseMarketValue, 0.001)
	assert.InDelta(t, 1.0, result.ConditionMultiplier, 0.0001)
	assert.Zero(t, result.ConditionAdjustment)
	assert.Zero(t, result.MarketAverage)
	assert.Zero(t, result.MarketRange.Min)
	assert.Zero(t, result.MarketRange.Max)
	assert.Equal(t, 50, result.Confidence)
}

func TestEstimate_EndToEnd(t *testing.T) {
	t.Parallel()

	listing := testListing(500)
	result, err := Estimate(listing, comps(400, 600), diag(domain.DiagGood, 100), DefaultPolicy())
	require.NoError(t, err)

	assert.InDelta(t, 500.0, result.MarketAverage, 0.001)
	assert.InDelta(t, 500.0, result.BaseMarketValue, 0.001)
	assert.InDelta(t, 1.0, result.ConditionMultiplier, 0.0001)
	assert.InDelta(t, 500.0, result.FinalValue, 0.001)
	assert.Zero(t, result.ConditionAdjustment)
	assert.Equal(t, 80, result.Confidence)
	assert.Equal(t, 2, result.SampleCount)
	require.NotNil(t, result.Factors.BatteryHealth)
	assert.Equal(t, 100, *result.Factors.BatteryHealth)
}

func TestEstimate_NoDiagnosticConfidence(t *testing.T) {
	t.Parallel()

	result, err := Estimate(testListing(500), comps(400, 600), nil, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 60, result.Confidence)
	assert.Nil(t, result.Factors.PerformanceScore)
}

func TestEstimate_MultiplierComposition(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	d := diag(domain.DiagFair, 60)
	result, err := Estimate(testListing(300), comps(200, 400), d, p)
	require.NoError(t, err)

	wantMult := 0.85 * 0.60
	assert.InDelta(t, wantMult, result.ConditionMultiplier, 0.0001)
	assert.InDelta(t, result.BaseMarketValue*wantMult, result.FinalValue, 1.0,
		"finalValue must equal baseMarketValue * conditionMultiplier to within rounding")
	assert.InDelta(t, 300*(wantMult-1), result.ConditionAdjustment, 1.0)
	assert.Negative(t, result.ConditionAdjustment)
}

func TestEstimate_InvalidListing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		listing *domain.Listing
	}{
		{name: "nil listing"},
		{name: "zero price", listing: testListing(0)},
		{name: "negative price", listing: testListing(-10)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Estimate(tt.listing, nil, nil, DefaultPolicy())
			assert.ErrorIs(t, err, ErrInvalidListing)
		})
	}
}

func TestEstimate_AlternatePolicy(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	p.ConditionFactors = map[domain.DiagCondition]float64{
		domain.DiagExcellent: 2.0,
	}
	p.DiagnosticBonus = 0

	result, err := Estimate(testListing(100), nil, diag(domain.DiagExcellent, 100), p)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, result.ConditionMultiplier, 0.0001)
	assert.InDelta(t, 200.0, result.FinalValue, 0.001)
	assert.Equal(t, 50, result.Confidence, "zero bonus leaves base confidence untouched")
}
