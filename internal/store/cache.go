package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache for the hot read paths: listings and latest analyses. Writes go to
// the primary store and invalidate the cache; reads check Redis first and
// fall back to the primary. Cache failures are never surfaced; the primary
// store is always authoritative.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

func listingKey(id string) string  { return "listing:" + id }
func analysisKey(id string) string { return "analysis:" + id }

// --- Listings ---

func (s *CachedStore) CreateListing(ctx context.Context, l *domain.Listing) error {
	if err := s.primary.CreateListing(ctx, l); err != nil {
		return err
	}
	s.cacheListing(ctx, l)
	return nil
}

func (s *CachedStore) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := s.rdb.Get(ctx, listingKey(id)).Bytes()
	if err == nil {
		var l domain.Listing
		if json.Unmarshal(data, &l) == nil {
			return &l, nil
		}
	}

	l, err := s.primary.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheListing(ctx, l)
	return l, nil
}

func (s *CachedStore) ListListings(
	ctx context.Context,
	opts *ListingQuery,
) ([]domain.Listing, int, error) {
	return s.primary.ListListings(ctx, opts)
}

func (s *CachedStore) SetListingStatus(
	ctx context.Context,
	id string,
	status domain.ListingStatus,
) error {
	if err := s.primary.SetListingStatus(ctx, id, status); err != nil {
		return err
	}
	// Invalidate; next read re-populates.
	s.rdb.Del(ctx, listingKey(id))
	return nil
}

func (s *CachedStore) cacheListing(ctx context.Context, l *domain.Listing) {
	if data, err := json.Marshal(l); err == nil {
		s.rdb.Set(ctx, listingKey(l.ID), data, s.ttl)
	}
}

// --- Comparable sales (pass-through) ---

func (s *CachedStore) InsertComparableSale(ctx context.Context, c *domain.ComparableSale) error {
	return s.primary.InsertComparableSale(ctx, c)
}

func (s *CachedStore) ListComparableSales(
	ctx context.Context,
	seg domain.Segment,
	limit int,
) ([]domain.ComparableSale, error) {
	return s.primary.ListComparableSales(ctx, seg, limit)
}

func (s *CachedStore) ListTrackedSegments(ctx context.Context) ([]domain.Segment, error) {
	return s.primary.ListTrackedSegments(ctx)
}

// --- Diagnostics ---

func (s *CachedStore) InsertDiagnosticReport(ctx context.Context, r *domain.DiagnosticReport) error {
	if err := s.primary.InsertDiagnosticReport(ctx, r); err != nil {
		return err
	}
	// A new report stales the cached analysis for this listing.
	s.rdb.Del(ctx, analysisKey(r.ListingID))
	return nil
}

func (s *CachedStore) GetLatestDiagnostic(
	ctx context.Context,
	listingID string,
) (*domain.DiagnosticReport, error) {
	return s.primary.GetLatestDiagnostic(ctx, listingID)
}

// --- Analyses ---

func (s *CachedStore) SaveAnalysis(ctx context.Context, a *domain.MarketAnalysis) error {
	if err := s.primary.SaveAnalysis(ctx, a); err != nil {
		return err
	}
	if data, err := json.Marshal(a); err == nil {
		s.rdb.Set(ctx, analysisKey(a.ListingID), data, s.ttl)
	}
	return nil
}

func (s *CachedStore) GetLatestAnalysis(
	ctx context.Context,
	listingID string,
) (*domain.MarketAnalysis, error) {
	data, err := s.rdb.Get(ctx, analysisKey(listingID)).Bytes()
	if err == nil {
		var a domain.MarketAnalysis
		if json.Unmarshal(data, &a) == nil {
			return &a, nil
		}
	}

	a, err := s.primary.GetLatestAnalysis(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(a); err == nil {
		s.rdb.Set(ctx, analysisKey(listingID), data, s.ttl)
	}
	return a, nil
}

func (s *CachedStore) ListStaleAnalysisListings(
	ctx context.Context,
	olderThan time.Duration,
	limit int,
) ([]string, error) {
	return s.primary.ListStaleAnalysisListings(ctx, olderThan, limit)
}

// --- Alerts (pass-through) ---

func (s *CachedStore) CreateAlert(ctx context.Context, a *domain.DealAlert) error {
	return s.primary.CreateAlert(ctx, a)
}

func (s *CachedStore) ListPendingAlerts(ctx context.Context) ([]domain.DealAlert, error) {
	return s.primary.ListPendingAlerts(ctx)
}

func (s *CachedStore) MarkAlertNotified(ctx context.Context, id string) error {
	return s.primary.MarkAlertNotified(ctx, id)
}

// --- Migrations / Health ---

func (s *CachedStore) Migrate(ctx context.Context) error {
	return s.primary.Migrate(ctx)
}

func (s *CachedStore) Ping(ctx context.Context) error {
	return s.primary.Ping(ctx)
}
