package client

import (
	"context"
	"fmt"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// CreateDiagnosticRequest defines the payload for attaching a diagnostic report.
type CreateDiagnosticRequest struct {
	BatteryHealth    int    `json:"battery_health"`
	PerformanceScore int    `json:"performance_score"`
	OverallCondition string `json:"overall_condition"`
}

// CreateDiagnostic attaches a diagnostic report to a listing.
func (c *Client) CreateDiagnostic(
	ctx context.Context,
	listingID string,
	req *CreateDiagnosticRequest,
) (*domain.DiagnosticReport, error) {
	var report domain.DiagnosticReport
	path := fmt.Sprintf("/api/v1/listings/%s/diagnostics", listingID)
	if err := c.post(ctx, path, req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetLatestDiagnostic returns the most recent diagnostic report for a listing.
func (c *Client) GetLatestDiagnostic(
	ctx context.Context,
	listingID string,
) (*domain.DiagnosticReport, error) {
	var report domain.DiagnosticReport
	path := fmt.Sprintf("/api/v1/listings/%s/diagnostics/latest", listingID)
	if err := c.get(ctx, path, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
