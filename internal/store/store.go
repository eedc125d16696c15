// Package store defines the datastore abstraction for market-appraiser.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables in-memory testing without a running database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist. Concrete
// implementations translate their own not-found signals into this sentinel.
var ErrNotFound = errors.New("not found")

// ListingQuery defines optional filters for listing queries.
type ListingQuery struct {
	Category *string
	Brand    *string
	Status   *string
	MinPrice *float64
	MaxPrice *float64
	Limit    int // default 50
	Offset   int
	OrderBy  string // "price", "created_at"
}

// Store defines all data access operations for market-appraiser.
type Store interface {
	// Listings
	CreateListing(ctx context.Context, l *domain.Listing) error
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	ListListings(ctx context.Context, opts *ListingQuery) ([]domain.Listing, int, error)
	SetListingStatus(ctx context.Context, id string, status domain.ListingStatus) error

	// Comparable sales
	InsertComparableSale(ctx context.Context, c *domain.ComparableSale) error
	ListComparableSales(ctx context.Context, seg domain.Segment, limit int) ([]domain.ComparableSale, error)
	ListTrackedSegments(ctx context.Context) ([]domain.Segment, error)

	// Diagnostics. GetLatestDiagnostic returns ErrNotFound when a listing
	// has no reports; callers treat that as a valid degraded input.
	InsertDiagnosticReport(ctx context.Context, r *domain.DiagnosticReport) error
	GetLatestDiagnostic(ctx context.Context, listingID string) (*domain.DiagnosticReport, error)

	// Analyses
	SaveAnalysis(ctx context.Context, a *domain.MarketAnalysis) error
	GetLatestAnalysis(ctx context.Context, listingID string) (*domain.MarketAnalysis, error)
	ListStaleAnalysisListings(ctx context.Context, olderThan time.Duration, limit int) ([]string, error)

	// Alerts
	CreateAlert(ctx context.Context, a *domain.DealAlert) error
	ListPendingAlerts(ctx context.Context) ([]domain.DealAlert, error)
	MarkAlertNotified(ctx context.Context, id string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
