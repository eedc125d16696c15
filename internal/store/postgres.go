package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
// Covered by the integration tests behind the integration build tag.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
// A poolSize of 0 falls back to the default.
func NewPostgresStore(ctx context.Context, connString string, poolSize int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	cfg.MaxConns = int32(poolSize)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// notFound translates pgx's no-rows signal into the store sentinel.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// --- Listings ---

// CreateListing inserts a new listing and fills in its generated fields.
func (s *PostgresStore) CreateListing(ctx context.Context, l *domain.Listing) error {
	if l.Status == "" {
		l.Status = domain.StatusActive
	}

	args := pgx.NamedArgs{
		"title":          l.Title,
		"description":    l.Description,
		"image_url":      l.ImageURL,
		"price":          l.Price,
		"currency":       l.Currency,
		"category":       string(l.Category),
		"brand":          l.Brand,
		"condition":      string(l.Condition),
		"battery_health": l.BatteryHealth,
		"seller_name":    l.SellerName,
		"status":         string(l.Status),
	}

	return s.pool.QueryRow(ctx, queryCreateListing, args).Scan(
		&l.ID, &l.CreatedAt, &l.UpdatedAt,
	)
}

// GetListing retrieves a listing by its UUID.
func (s *PostgresStore) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	l := &domain.Listing{}
	if err := scanListing(s.pool.QueryRow(ctx, queryGetListing, id), l); err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// ListListings queries listings with optional filters, returning results and
// total count.
func (s *PostgresStore) ListListings(
	ctx context.Context,
	opts *ListingQuery,
) ([]domain.Listing, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting listings: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, 0, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating listings: %w", err)
	}

	return listings, total, nil
}

// SetListingStatus updates the moderation status of a listing.
func (s *PostgresStore) SetListingStatus(
	ctx context.Context,
	id string,
	status domain.ListingStatus,
) error {
	tag, err := s.pool.Exec(ctx, querySetListingStatus, id, string(status))
	if err != nil {
		return fmt.Errorf("updating listing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner, l *domain.Listing) error {
	return row.Scan(
		&l.ID, &l.Title, &l.Description, &l.ImageURL,
		&l.Price, &l.Currency, &l.Category, &l.Brand,
		&l.Condition, &l.BatteryHealth, &l.SellerName, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	)
}

// --- Comparable sales ---

// InsertComparableSale records an observed market price.
func (s *PostgresStore) InsertComparableSale(
	ctx context.Context,
	c *domain.ComparableSale,
) error {
	var createdAt *time.Time
	if !c.CreatedAt.IsZero() {
		createdAt = &c.CreatedAt
	}

	args := pgx.NamedArgs{
		"category":     string(c.Category),
		"brand":        c.Brand,
		"market_price": c.MarketPrice,
		"source":       c.Source,
		"created_at":   createdAt,
	}

	return s.pool.QueryRow(ctx, queryInsertComparableSale, args).Scan(&c.ID, &c.CreatedAt)
}

// ListComparableSales returns the most recent sales for a segment, newest
// first.
func (s *PostgresStore) ListComparableSales(
	ctx context.Context,
	seg domain.Segment,
	limit int,
) ([]domain.ComparableSale, error) {
	rows, err := s.pool.Query(ctx, queryListComparableSales, string(seg.Category), seg.Brand, limit)
	if err != nil {
		return nil, fmt.Errorf("querying comparable sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.ComparableSale
	for rows.Next() {
		var c domain.ComparableSale
		if err := rows.Scan(&c.ID, &c.Category, &c.Brand, &c.MarketPrice, &c.Source, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comparable sale: %w", err)
		}
		sales = append(sales, c)
	}
	return sales, rows.Err()
}

// ListTrackedSegments returns the distinct (category, brand) pairs with
// active listings.
func (s *PostgresStore) ListTrackedSegments(ctx context.Context) ([]domain.Segment, error) {
	rows, err := s.pool.Query(ctx, queryListTrackedSegments)
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	defer rows.Close()

	var segments []domain.Segment
	for rows.Next() {
		var seg domain.Segment
		if err := rows.Scan(&seg.Category, &seg.Brand); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// --- Diagnostics ---

// InsertDiagnosticReport records a new diagnostic report for a listing.
func (s *PostgresStore) InsertDiagnosticReport(
	ctx context.Context,
	r *domain.DiagnosticReport,
) error {
	args := pgx.NamedArgs{
		"listing_id":        r.ListingID,
		"battery_health":    r.BatteryHealth,
		"performance_score": r.PerformanceScore,
		"overall_condition": string(r.OverallCondition),
	}

	return s.pool.QueryRow(ctx, queryInsertDiagnosticReport, args).Scan(&r.ID, &r.CreatedAt)
}

// GetLatestDiagnostic returns the most recent report for a listing, or
// ErrNotFound when none exists.
func (s *PostgresStore) GetLatestDiagnostic(
	ctx context.Context,
	listingID string,
) (*domain.DiagnosticReport, error) {
	r := &domain.DiagnosticReport{}
	err := s.pool.QueryRow(ctx, queryGetLatestDiagnostic, listingID).Scan(
		&r.ID, &r.ListingID, &r.BatteryHealth, &r.PerformanceScore,
		&r.OverallCondition, &r.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

// --- Analyses ---

// SaveAnalysis persists a valuation snapshot.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, a *domain.MarketAnalysis) error {
	resultJSON, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	positionJSON, err := json.Marshal(a.Position)
	if err != nil {
		return fmt.Errorf("marshaling position: %w", err)
	}

	args := pgx.NamedArgs{
		"listing_id":  a.ListingID,
		"result":      resultJSON,
		"position":    positionJSON,
		"final_value": a.Result.FinalValue,
		"confidence":  a.Result.Confidence,
	}

	return s.pool.QueryRow(ctx, querySaveAnalysis, args).Scan(&a.ID, &a.CreatedAt)
}

// GetLatestAnalysis returns the most recent persisted valuation for a
// listing, or ErrNotFound when none exists.
func (s *PostgresStore) GetLatestAnalysis(
	ctx context.Context,
	listingID string,
) (*domain.MarketAnalysis, error) {
	a := &domain.MarketAnalysis{}
	var resultJSON, positionJSON []byte

	err := s.pool.QueryRow(ctx, queryGetLatestAnalysis, listingID).Scan(
		&a.ID, &a.ListingID, &resultJSON, &positionJSON, &a.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	if err := json.Unmarshal(resultJSON, &a.Result); err != nil {
		return nil, fmt.Errorf("unmarshaling result: %w", err)
	}
	if err := json.Unmarshal(positionJSON, &a.Position); err != nil {
		return nil, fmt.Errorf("unmarshaling position: %w", err)
	}

	return a, nil
}

// ListStaleAnalysisListings returns IDs of active listings whose latest
// analysis is older than the staleness window (or missing entirely).
func (s *PostgresStore) ListStaleAnalysisListings(
	ctx context.Context,
	olderThan time.Duration,
	limit int,
) ([]string, error) {
	interval := fmt.Sprintf("%d seconds", int(olderThan.Seconds()))

	rows, err := s.pool.Query(ctx, queryListStaleAnalysisListings, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("querying stale analyses: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning listing id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- Alerts ---

// CreateAlert records a deal alert. A listing with an un-notified alert
// does not get a second one.
func (s *PostgresStore) CreateAlert(ctx context.Context, a *domain.DealAlert) error {
	err := s.pool.QueryRow(ctx, queryCreateAlert,
		a.ListingID, a.FinalValue, a.AskingPrice, a.DifferencePct,
	).Scan(&a.ID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict with an existing pending alert; nothing to do.
		return nil
	}
	return err
}

// ListPendingAlerts returns alerts not yet notified, newest first.
func (s *PostgresStore) ListPendingAlerts(ctx context.Context) ([]domain.DealAlert, error) {
	rows, err := s.pool.Query(ctx, queryListPendingAlerts)
	if err != nil {
		return nil, fmt.Errorf("querying pending alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.DealAlert
	for rows.Next() {
		var a domain.DealAlert
		if err := rows.Scan(
			&a.ID, &a.ListingID, &a.FinalValue, &a.AskingPrice,
			&a.DifferencePct, &a.Notified, &a.NotifiedAt, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// MarkAlertNotified flags an alert as delivered.
func (s *PostgresStore) MarkAlertNotified(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryMarkAlertNotified, id)
	if err != nil {
		return fmt.Errorf("marking alert notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
