package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gearmarket/market-appraiser/internal/engine"
	"github.com/gearmarket/market-appraiser/internal/store"
	"github.com/gearmarket/market-appraiser/pkg/valuer"
)

// ValuationHandler handles valuation, analysis, and trust endpoints.
type ValuationHandler struct {
	store  store.Store
	engine *engine.Engine
}

// NewValuationHandler creates a new ValuationHandler.
func NewValuationHandler(s store.Store, eng *engine.Engine) *ValuationHandler {
	return &ValuationHandler{store: s, engine: eng}
}

// GetValue computes a fresh market-value estimate for a listing and returns
// the valuation result. The analysis snapshot is persisted as a side effect.
func (h *ValuationHandler) GetValue(c echo.Context) error {
	analysis, err := h.engine.Appraise(c.Request().Context(), c.Param("id"))
	if err != nil {
		return valuationError(c, err)
	}
	return c.JSON(http.StatusOK, analysis.Result)
}

// GetAnalysis returns the latest stored market analysis for a listing,
// computing one on the fly when none exists yet.
func (h *ValuationHandler) GetAnalysis(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	analysis, err := h.store.GetLatestAnalysis(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		analysis, err = h.engine.Appraise(ctx, id)
	}
	if err != nil {
		return valuationError(c, err)
	}

	return c.JSON(http.StatusOK, analysis)
}

// GetTrust returns the trustworthiness companion score for a listing. Battery
// health comes from the latest diagnostic report when one exists, falling
// back to the seller-declared value.
func (h *ValuationHandler) GetTrust(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	listing, err := h.store.GetListing(ctx, id)
	if err != nil {
		return valuationError(c, err)
	}

	battery := listing.BatteryHealth
	hasDiag := false

	diag, err := h.store.GetLatestDiagnostic(ctx, id)
	switch {
	case err == nil:
		hasDiag = true
		battery = &diag.BatteryHealth
	case errors.Is(err, store.ErrNotFound):
	default:
		return c.JSON(http.StatusInternalServerError, errResp("getting diagnostics failed"))
	}

	rating := valuer.TrustScore(battery, hasDiag, listing.HasImages())
	return c.JSON(http.StatusOK, rating)
}

func valuationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, errResp("listing not found"))
	case errors.Is(err, valuer.ErrInvalidListing):
		return c.JSON(http.StatusUnprocessableEntity, errResp("listing cannot be valued"))
	default:
		return c.JSON(http.StatusInternalServerError, errResp("valuation failed"))
	}
}
