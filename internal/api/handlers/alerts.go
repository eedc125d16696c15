package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gearmarket/market-appraiser/internal/store"
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// AlertsHandler exposes pending deal alerts.
type AlertsHandler struct {
	store store.Store
}

// NewAlertsHandler creates a new AlertsHandler.
func NewAlertsHandler(s store.Store) *AlertsHandler {
	return &AlertsHandler{store: s}
}

// ListAlertsResponse is the pending alert response.
type ListAlertsResponse struct {
	Alerts []domain.DealAlert `json:"alerts"`
	Total  int                `json:"total"`
}

// ListPendingAlerts returns deal alerts awaiting notification.
func (h *AlertsHandler) ListPendingAlerts(c echo.Context) error {
	alerts, err := h.store.ListPendingAlerts(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errResp("alert query failed"))
	}

	if alerts == nil {
		alerts = []domain.DealAlert{}
	}

	return c.JSON(http.StatusOK, ListAlertsResponse{
		Alerts: alerts,
		Total:  len(alerts),
	})
}
