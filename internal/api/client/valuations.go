package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// GetValue computes and returns the market-value estimate for a listing.
func (c *Client) GetValue(ctx context.Context, id string) (*domain.ValuationResult, error) {
	var result domain.ValuationResult
	if err := c.get(ctx, fmt.Sprintf("/api/v1/listings/%s/value", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAnalysis returns the latest market analysis for a listing.
func (c *Client) GetAnalysis(ctx context.Context, id string) (*domain.MarketAnalysis, error) {
	var analysis domain.MarketAnalysis
	if err := c.get(ctx, fmt.Sprintf("/api/v1/listings/%s/analysis", id), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// GetTrust returns the trustworthiness score for a listing.
func (c *Client) GetTrust(ctx context.Context, id string) (*domain.TrustRating, error) {
	var rating domain.TrustRating
	if err := c.get(ctx, fmt.Sprintf("/api/v1/listings/%s/trust", id), &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// ComparablesResponse wraps a comparable-sale query response.
type ComparablesResponse struct {
	Comparables []domain.ComparableSale `json:"comparables"`
	Total       int                     `json:"total"`
}

// ListComparables returns recent comparable sales for a segment.
func (c *Client) ListComparables(
	ctx context.Context,
	category, brand string,
	limit int,
) (*ComparablesResponse, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("brand", brand)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp ComparablesResponse
	if err := c.get(ctx, "/api/v1/comparables?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AlertsResponse wraps a pending-alert query response.
type AlertsResponse struct {
	Alerts []domain.DealAlert `json:"alerts"`
	Total  int                `json:"total"`
}

// ListPendingAlerts returns deal alerts awaiting notification.
func (c *Client) ListPendingAlerts(ctx context.Context) (*AlertsResponse, error) {
	var resp AlertsResponse
	if err := c.get(ctx, "/api/v1/alerts", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
