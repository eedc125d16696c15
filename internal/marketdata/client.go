// Package marketdata provides a client for the external sold-listings feed
// that supplies comparable sales, abstracted behind an interface for
// testability.
package marketdata

import (
	"context"
	"time"
)

// FetchRequest defines the parameters for a comparable-sale fetch.
type FetchRequest struct {
	Category string
	Brand    string
	Limit    int
	Offset   int
	SoldAfter time.Time
}

// SaleRecord is a single sold listing as reported by the feed.
type SaleRecord struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Brand     string    `json:"brand"`
	SalePrice float64   `json:"salePrice"`
	Currency  string    `json:"currency"`
	Source    string    `json:"source"`
	SoldAt    time.Time `json:"soldAt"`
}

// FetchResponse holds the results of a feed query.
type FetchResponse struct {
	Sales   []SaleRecord
	Total   int
	Offset  int
	Limit   int
	HasMore bool
}

// Client defines the interface for fetching comparable sales.
type Client interface {
	FetchSales(ctx context.Context, req FetchRequest) (*FetchResponse, error)
}
