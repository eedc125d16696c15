package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// MemoryStore implements Store with in-memory maps. Used for testing and
// local development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu          sync.RWMutex
	listings    map[string]*domain.Listing
	comparables []domain.ComparableSale
	diagnostics []domain.DiagnosticReport
	analyses    []domain.MarketAnalysis
	alerts      map[string]*domain.DealAlert

	nowFunc func() time.Time
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		listings: make(map[string]*domain.Listing),
		alerts:   make(map[string]*domain.DealAlert),
		nowFunc:  time.Now,
	}
}

// --- Listings ---

func (s *MemoryStore) CreateListing(_ context.Context, l *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = domain.StatusActive
	}
	now := s.nowFunc()
	l.CreatedAt = now
	l.UpdatedAt = now

	cp := *l
	s.listings[l.ID] = &cp
	return nil
}

func (s *MemoryStore) GetListing(_ context.Context, id string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *MemoryStore) ListListings(
	_ context.Context,
	opts *ListingQuery,
) ([]domain.Listing, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Listing
	for _, l := range s.listings {
		if !matchesQuery(l, opts) {
			continue
		}
		matched = append(matched, *l)
	}

	sort.Slice(matched, func(i, j int) bool {
		if opts.OrderBy == orderByPrice {
			return matched[i].Price < matched[j].Price
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	offset := opts.Offset
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return matched[offset:end], total, nil
}

func matchesQuery(l *domain.Listing, opts *ListingQuery) bool {
	if opts.Status != nil {
		if string(l.Status) != *opts.Status {
			return false
		}
	} else if l.Status == domain.StatusRemoved {
		return false
	}
	if opts.Category != nil && string(l.Category) != *opts.Category {
		return false
	}
	if opts.Brand != nil && l.Brand != *opts.Brand {
		return false
	}
	if opts.MinPrice != nil && l.Price < *opts.MinPrice {
		return false
	}
	if opts.MaxPrice != nil && l.Price > *opts.MaxPrice {
		return false
	}
	return true
}

func (s *MemoryStore) SetListingStatus(
	_ context.Context,
	id string,
	status domain.ListingStatus,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return ErrNotFound
	}
	l.Status = status
	l.UpdatedAt = s.nowFunc()
	return nil
}

// --- Comparable sales ---

func (s *MemoryStore) InsertComparableSale(_ context.Context, c *domain.ComparableSale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.nowFunc()
	}
	s.comparables = append(s.comparables, *c)
	return nil
}

func (s *MemoryStore) ListComparableSales(
	_ context.Context,
	seg domain.Segment,
	limit int,
) ([]domain.ComparableSale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.ComparableSale
	for _, c := range s.comparables {
		if c.Category == seg.Category && c.Brand == seg.Brand {
			matched = append(matched, c)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStore) ListTrackedSegments(_ context.Context) ([]domain.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[domain.Segment]struct{})
	var segments []domain.Segment
	for _, l := range s.listings {
		if l.Status != domain.StatusActive {
			continue
		}
		seg := l.Segment()
		if _, ok := seen[seg]; ok {
			continue
		}
		seen[seg] = struct{}{}
		segments = append(segments, seg)
	}

	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Category != segments[j].Category {
			return segments[i].Category < segments[j].Category
		}
		return segments[i].Brand < segments[j].Brand
	})
	return segments, nil
}

// --- Diagnostics ---

func (s *MemoryStore) InsertDiagnosticReport(_ context.Context, r *domain.DiagnosticReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.nowFunc()
	}
	s.diagnostics = append(s.diagnostics, *r)
	return nil
}

func (s *MemoryStore) GetLatestDiagnostic(
	_ context.Context,
	listingID string,
) (*domain.DiagnosticReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.DiagnosticReport
	for i := range s.diagnostics {
		r := &s.diagnostics[i]
		if r.ListingID != listingID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

// --- Analyses ---

func (s *MemoryStore) SaveAnalysis(_ context.Context, a *domain.MarketAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.nowFunc()
	}
	s.analyses = append(s.analyses, *a)
	return nil
}

func (s *MemoryStore) GetLatestAnalysis(
	_ context.Context,
	listingID string,
) (*domain.MarketAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.MarketAnalysis
	for i := range s.analyses {
		a := &s.analyses[i]
		if a.ListingID != listingID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *MemoryStore) ListStaleAnalysisListings(
	_ context.Context,
	olderThan time.Duration,
	limit int,
) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.nowFunc().Add(-olderThan)

	var ids []string
	for id, l := range s.listings {
		if l.Status != domain.StatusActive {
			continue
		}
		latest := s.latestAnalysisTime(id)
		if latest == nil || latest.Before(cutoff) {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *MemoryStore) latestAnalysisTime(listingID string) *time.Time {
	var latest *time.Time
	for i := range s.analyses {
		a := &s.analyses[i]
		if a.ListingID != listingID {
			continue
		}
		if latest == nil || a.CreatedAt.After(*latest) {
			t := a.CreatedAt
			latest = &t
		}
	}
	return latest
}

// --- Alerts ---

func (s *MemoryStore) CreateAlert(_ context.Context, a *domain.DealAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// One pending alert per listing.
	for _, existing := range s.alerts {
		if existing.ListingID == a.ListingID && !existing.Notified {
			return nil
		}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = s.nowFunc()

	cp := *a
	s.alerts[a.ID] = &cp
	return nil
}

func (s *MemoryStore) ListPendingAlerts(_ context.Context) ([]domain.DealAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []domain.DealAlert
	for _, a := range s.alerts {
		if !a.Notified {
			pending = append(pending, *a)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	return pending, nil
}

func (s *MemoryStore) MarkAlertNotified(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return ErrNotFound
	}
	now := s.nowFunc()
	a.Notified = true
	a.NotifiedAt = &now
	return nil
}

// --- Migrations / Health ---

func (s *MemoryStore) Migrate(_ context.Context) error { return nil }

func (s *MemoryStore) Ping(_ context.Context) error { return nil }
