package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearmarket/market-appraiser/internal/engine"
	"github.com/gearmarket/market-appraiser/internal/marketdata"
	"github.com/gearmarket/market-appraiser/internal/notify"
	"github.com/gearmarket/market-appraiser/internal/store"
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

type stubFeed struct{}

func (stubFeed) FetchSales(
	_ context.Context,
	_ marketdata.FetchRequest,
) (*marketdata.FetchResponse, error) {
	return &marketdata.FetchResponse{}, nil
}

type stubNotifier struct{}

func (stubNotifier) SendAlert(context.Context, *notify.AlertPayload) error { return nil }
func (stubNotifier) SendBatchAlert(context.Context, []notify.AlertPayload) error {
	return nil
}

func newValuationFixture(t *testing.T) (store.Store, *ValuationHandler) {
	t.Helper()
	s := store.NewMemoryStore()
	eng := engine.NewEngine(s, stubFeed{}, stubNotifier{})
	return s, NewValuationHandler(s, eng)
}

func paramContext(method, path, id string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newContext(method, "/", "")
	c.SetPath(path)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestValuationHandler_GetValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns valuation wire shape", func(t *testing.T) {
		t.Parallel()

		s, h := newValuationFixture(t)
		l := seedHandlerListing(t, s)
		for _, p := range []float64{600, 700} {
			p := p
			require.NoError(t, s.InsertComparableSale(ctx, &domain.ComparableSale{
				Category:    domain.CategoryElectronics,
				Brand:       "Apple",
				MarketPrice: p,
			}))
		}
		require.NoError(t, s.InsertDiagnosticReport(ctx, &domain.DiagnosticReport{
			ListingID:        l.ID,
			BatteryHealth:    100,
			PerformanceScore: 90,
			OverallCondition: domain.DiagGood,
		}))

		c, rec := paramContext(http.MethodGet, "/api/v1/listings/:id/value", l.ID)
		require.NoError(t, h.GetValue(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

		assert.Equal(t, 650.0, got["baseMarketValue"])
		assert.Equal(t, 650.0, got["marketAverage"])
		assert.Equal(t, 650.0, got["finalValue"])
		assert.Equal(t, 1.0, got["conditionMultiplier"])
		assert.Equal(t, 80.0, got["confidence"])

		marketRange, ok := got["marketRange"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 600.0, marketRange["min"])
		assert.Equal(t, 700.0, marketRange["max"])

		factors, ok := got["factors"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 1.0, factors["condition"])
		assert.Equal(t, 100.0, factors["batteryHealth"])
		assert.Equal(t, 90.0, factors["performanceScore"])

		// The raw confidence fraction never leaks to clients.
		_, exposed := got["rawConfidence"]
		assert.False(t, exposed)
	})

	t.Run("missing listing returns 404", func(t *testing.T) {
		t.Parallel()

		_, h := newValuationFixture(t)
		c, rec := paramContext(http.MethodGet, "/api/v1/listings/:id/value", "missing")
		require.NoError(t, h.GetValue(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestValuationHandler_GetAnalysis(t *testing.T) {
	t.Parallel()

	t.Run("computes analysis when none stored", func(t *testing.T) {
		t.Parallel()

		s, h := newValuationFixture(t)
		l := seedHandlerListing(t, s)

		c, rec := paramContext(http.MethodGet, "/api/v1/listings/:id/analysis", l.ID)
		require.NoError(t, h.GetAnalysis(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.MarketAnalysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, l.ID, got.ListingID)
		assert.Equal(t, 650.0, got.Result.FinalValue)
		assert.Equal(t, domain.PositionFair, got.Position.Label)
	})

	t.Run("returns stored analysis", func(t *testing.T) {
		t.Parallel()

		s, h := newValuationFixture(t)
		l := seedHandlerListing(t, s)
		require.NoError(t, s.SaveAnalysis(context.Background(), &domain.MarketAnalysis{
			ListingID: l.ID,
			Result:    domain.ValuationResult{FinalValue: 777, Confidence: 50},
			Position:  domain.MarketPosition{Label: domain.PositionFair},
		}))

		c, rec := paramContext(http.MethodGet, "/api/v1/listings/:id/analysis", l.ID)
		require.NoError(t, h.GetAnalysis(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.MarketAnalysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 777.0, got.Result.FinalValue)
	})
}

func TestValuationHandler_GetTrust(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("bare listing scores battery only", func(t *testing.T) {
		t.Parallel()

		s, h := newValuationFixture(t)
		battery := 85
		l := &domain.Listing{
			Title:         "Pixel 7",
			Price:         300,
			Currency:      "USD",
			Category:      domain.CategoryElectronics,
			Brand:         "Google",
			Condition:     domain.ConditionGood,
			BatteryHealth: &battery,
		}
		require.NoError(t, s.CreateListing(ctx, l))

		c, rec := paramContext(http.MethodGet, "/api/v1/listings/:id/trust", l.ID)
		require.NoError(t, h.GetTrust(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.TrustRating
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 85, got.Score)
		assert.Equal(t, "Excellent", got.Label)
	})

	t.Run("diagnostics and images add bonuses", func(t *testing.T) {
		t.Parallel()

		s, h := newValuationFixture(t)
		l := &domain.Listing{
			Title:     "Pixel 7",
			Price:     300,
			Currency:  "USD",
			Category:  domain.CategoryElectronics,
			Brand:     "Google",
			Condition: domain.ConditionGood,
			ImageURL:  "https://cdn.example/pixel.jpg",
		}
		require.NoError(t, s.CreateListing(ctx, l))
		require.NoError(t, s.InsertDiagnosticReport(ctx, &domain.DiagnosticReport{
			ListingID:        l.ID,
			BatteryHealth:    60,
			PerformanceScore: 70,
			OverallCondition: domain.DiagFair,
		}))

		c, rec := paramContext(http.MethodGet, "/api/v1/listings/:id/trust", l.ID)
		require.NoError(t, h.GetTrust(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.TrustRating
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		// 60 battery + 20 diagnostics + 10 images.
		assert.Equal(t, 90, got.Score)
	})

	t.Run("missing listing returns 404", func(t *testing.T) {
		t.Parallel()

		_, h := newValuationFixture(t)
		c, rec := paramContext(http.MethodGet, "/api/v1/listings/:id/trust", "missing")
		require.NoError(t, h.GetTrust(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
