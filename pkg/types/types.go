// Package domain defines the core business types for market-appraiser.
package domain

import (
	"time"
)

// Category represents the marketplace category of a listing.
type Category string

// Category constants. Unknown categories are accepted and valued with a
// neutral multiplier; the enum exists for query validation and display.
const (
	CategoryElectronics Category = "electronics"
	CategoryAppliances  Category = "appliances"
	CategoryWearables   Category = "wearables"
	CategoryAudio       Category = "audio"
	CategoryGaming      Category = "gaming"
	CategoryOther       Category = "other"
)

// Condition represents the seller-declared condition of a listing.
type Condition string

// Seller-declared condition constants.
const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// DiagCondition represents the diagnostics-derived condition axis. It is
// distinct from the seller-declared Condition and takes precedence during
// valuation when a diagnostic report exists.
type DiagCondition string

// Diagnostic condition constants.
const (
	DiagExcellent DiagCondition = "excellent"
	DiagGood      DiagCondition = "good"
	DiagFair      DiagCondition = "fair"
	DiagPoor      DiagCondition = "poor"
)

// ListingStatus represents the moderation state of a listing.
type ListingStatus string

// Listing status constants.
const (
	StatusActive  ListingStatus = "active"
	StatusFlagged ListingStatus = "flagged"
	StatusRemoved ListingStatus = "removed"
)

// Listing represents an item for sale with pricing and diagnostic attributes.
type Listing struct {
	ID          string `json:"id"                    db:"id"`
	Title       string `json:"title"                 db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	ImageURL    string `json:"image_url,omitempty"   db:"image_url"`

	Price    float64  `json:"price"    db:"price"`
	Currency string   `json:"currency" db:"currency"`
	Category Category `json:"category" db:"category"`
	Brand    string   `json:"brand"    db:"brand"`

	Condition     Condition `json:"condition"                db:"condition"`
	BatteryHealth *int      `json:"battery_health,omitempty" db:"battery_health"`

	SellerName string        `json:"seller_name" db:"seller_name"`
	Status     ListingStatus `json:"status"      db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasImages reports whether the listing carries at least one image.
func (l *Listing) HasImages() bool {
	return l.ImageURL != ""
}

// Segment returns the comparable-sale match key for this listing.
func (l *Listing) Segment() Segment {
	return Segment{Category: l.Category, Brand: l.Brand}
}

// Segment is a (category, brand) pair used to match comparable sales.
type Segment struct {
	Category Category `json:"category" db:"category"`
	Brand    string   `json:"brand"    db:"brand"`
}

// ComparableSale is a historical observed market price for a similar item.
// Externally sourced and read-only to the valuation engine.
type ComparableSale struct {
	ID          string    `json:"id"               db:"id"`
	Category    Category  `json:"category"         db:"category"`
	Brand       string    `json:"brand"            db:"brand"`
	MarketPrice float64   `json:"market_price"     db:"market_price"`
	Source      string    `json:"source,omitempty" db:"source"`
	CreatedAt   time.Time `json:"created_at"       db:"created_at"`
}

// DiagnosticReport is a hardware condition assessment for a listing.
// A listing may have zero or more; only the most recent one feeds valuation.
type DiagnosticReport struct {
	ID               string        `json:"id"                db:"id"`
	ListingID        string        `json:"listing_id"        db:"listing_id"`
	BatteryHealth    int           `json:"battery_health"    db:"battery_health"`
	PerformanceScore int           `json:"performance_score" db:"performance_score"`
	OverallCondition DiagCondition `json:"overall_condition" db:"overall_condition"`
	CreatedAt        time.Time     `json:"created_at"        db:"created_at"`
}

// MarketRange is the min/max spread over the comparable-sale set.
type MarketRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ValuationFactors exposes the inputs behind a valuation for display.
type ValuationFactors struct {
	Condition        float64 `json:"condition"`
	Category         float64 `json:"category"`
	BatteryHealth    *int    `json:"batteryHealth,omitempty"`
	PerformanceScore *int    `json:"performanceScore,omitempty"`
}

// ValuationResult is the output of the estimation engine.
//
// Field names are part of the wire format consumed by existing clients and
// must not change: baseMarketValue, marketAverage, marketRange.min/max,
// conditionMultiplier, conditionAdjustment, finalValue, confidence, factors.
type ValuationResult struct {
	BaseMarketValue     float64          `json:"baseMarketValue"`
	MarketAverage       float64          `json:"marketAverage"`
	MarketRange         MarketRange      `json:"marketRange"`
	ConditionMultiplier float64          `json:"conditionMultiplier"`
	ConditionAdjustment float64          `json:"conditionAdjustment"`
	FinalValue          float64          `json:"finalValue"`
	Confidence          int              `json:"confidence"`
	SampleCount         int              `json:"sampleCount"`
	Factors             ValuationFactors `json:"factors"`

	// RawConfidence preserves the unclamped confidence fraction. The
	// historical calculation can exceed 1.0 when a warm comparable set
	// meets a diagnostic bonus; clients only ever see the clamped percent.
	RawConfidence float64 `json:"-"`
}

// PositionLabel classifies an asking price against a computed valuation.
type PositionLabel string

// Position constants.
const (
	PositionOverpriced  PositionLabel = "overpriced"
	PositionUnderpriced PositionLabel = "underpriced"
	PositionFair        PositionLabel = "fair"
)

// MarketPosition describes where an asking price sits relative to the
// estimated value. DifferencePercentage is nil when the final value is zero.
type MarketPosition struct {
	Label                PositionLabel `json:"label"`
	Difference           float64       `json:"difference"`
	DifferencePercentage *float64      `json:"difference_percentage,omitempty"`
	Recommendation       string        `json:"recommendation"`
}

// MarketAnalysis is a persisted valuation snapshot for a listing.
type MarketAnalysis struct {
	ID        string          `json:"id"         db:"id"`
	ListingID string          `json:"listing_id" db:"listing_id"`
	Result    ValuationResult `json:"result"     db:"result"`
	Position  MarketPosition  `json:"position"   db:"position"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// DealAlert records an underpriced listing awaiting notification.
type DealAlert struct {
	ID            string     `json:"id"                    db:"id"`
	ListingID     string     `json:"listing_id"            db:"listing_id"`
	FinalValue    float64    `json:"final_value"           db:"final_value"`
	AskingPrice   float64    `json:"asking_price"          db:"asking_price"`
	DifferencePct float64    `json:"difference_pct"        db:"difference_pct"`
	Notified      bool       `json:"notified"              db:"notified"`
	NotifiedAt    *time.Time `json:"notified_at,omitempty" db:"notified_at"`
	CreatedAt     time.Time  `json:"created_at"            db:"created_at"`
}

// TrustRating is the listing trustworthiness companion score (0-100) with
// its display tier.
type TrustRating struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Color string `json:"color"`
}
