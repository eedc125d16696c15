package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gearmarket/market-appraiser/internal/store"
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// DiagnosticsHandler handles diagnostic report submission and retrieval.
type DiagnosticsHandler struct {
	store store.Store
}

// NewDiagnosticsHandler creates a new DiagnosticsHandler.
func NewDiagnosticsHandler(s store.Store) *DiagnosticsHandler {
	return &DiagnosticsHandler{store: s}
}

// CreateDiagnosticRequest is the request body for submitting a report.
type CreateDiagnosticRequest struct {
	BatteryHealth    int    `json:"battery_health"`
	PerformanceScore int    `json:"performance_score"`
	OverallCondition string `json:"overall_condition"`
}

// CreateDiagnostic attaches a new diagnostic report to a listing. The newest
// report supersedes earlier ones for valuation.
func (h *DiagnosticsHandler) CreateDiagnostic(c echo.Context) error {
	ctx := c.Request().Context()
	listingID := c.Param("id")

	var req CreateDiagnosticRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResp("invalid request body"))
	}

	if req.BatteryHealth < 0 || req.BatteryHealth > 100 {
		return c.JSON(http.StatusBadRequest, errResp("battery_health must be between 0 and 100"))
	}
	if req.PerformanceScore < 0 || req.PerformanceScore > 100 {
		return c.JSON(http.StatusBadRequest, errResp("performance_score must be between 0 and 100"))
	}

	cond := domain.DiagCondition(req.OverallCondition)
	switch cond {
	case domain.DiagExcellent, domain.DiagGood, domain.DiagFair, domain.DiagPoor:
	default:
		return c.JSON(http.StatusBadRequest,
			errResp("overall_condition must be excellent, good, fair, or poor"))
	}

	// The listing must exist before a report can attach to it.
	if _, err := h.store.GetListing(ctx, listingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errResp("listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, errResp("getting listing failed"))
	}

	report := &domain.DiagnosticReport{
		ListingID:        listingID,
		BatteryHealth:    req.BatteryHealth,
		PerformanceScore: req.PerformanceScore,
		OverallCondition: cond,
	}

	if err := h.store.InsertDiagnosticReport(ctx, report); err != nil {
		return c.JSON(http.StatusInternalServerError, errResp("saving diagnostic report failed"))
	}

	return c.JSON(http.StatusCreated, report)
}

// GetLatestDiagnostic returns the most recent diagnostic report for a listing.
func (h *DiagnosticsHandler) GetLatestDiagnostic(c echo.Context) error {
	report, err := h.store.GetLatestDiagnostic(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errResp("no diagnostic reports for listing"))
		}
		return c.JSON(http.StatusInternalServerError, errResp("getting diagnostics failed"))
	}
	return c.JSON(http.StatusOK, report)
}
