package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// ListingsResponse wraps a paginated listings response.
type ListingsResponse struct {
	Listings []domain.Listing `json:"listings"`
	Total    int              `json:"total"`
}

// ListListingsParams defines query parameters for listing queries.
type ListListingsParams struct {
	Category string
	Brand    string
	Status   string
	MinPrice float64
	MaxPrice float64
	Limit    int
	Offset   int
	OrderBy  string
}

// ListListings returns listings matching the given parameters.
func (c *Client) ListListings(
	ctx context.Context,
	params *ListListingsParams,
) (*ListingsResponse, error) {
	q := url.Values{}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Brand != "" {
		q.Set("brand", params.Brand)
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(params.MinPrice, 'f', -1, 64))
	}
	if params.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(params.MaxPrice, 'f', -1, 64))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.OrderBy != "" {
		q.Set("order_by", params.OrderBy)
	}

	path := "/api/v1/listings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListingsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetListing returns a single listing by ID.
func (c *Client) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	if err := c.get(ctx, fmt.Sprintf("/api/v1/listings/%s", id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateListing creates a new listing and returns the stored record.
func (c *Client) CreateListing(
	ctx context.Context,
	listing *domain.Listing,
) (*domain.Listing, error) {
	var created domain.Listing
	if err := c.post(ctx, "/api/v1/listings", listing, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetListingStatus updates a listing's moderation status.
func (c *Client) SetListingStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return c.patch(ctx, fmt.Sprintf("/api/v1/listings/%s/status", id), body, nil)
}
