package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gearmarket/market-appraiser/internal/store"
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

// ListingsHandler handles listing CRUD and moderation endpoints.
type ListingsHandler struct {
	store store.Store
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(s store.Store) *ListingsHandler {
	return &ListingsHandler{store: s}
}

// CreateListingRequest is the request body for creating a listing.
type CreateListingRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"image_url"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	Category      string  `json:"category"`
	Brand         string  `json:"brand"`
	Condition     string  `json:"condition"`
	BatteryHealth *int    `json:"battery_health"`
	SellerName    string  `json:"seller_name"`
}

// ListListingsResponse is the paginated listing response.
type ListListingsResponse struct {
	Listings []domain.Listing `json:"listings"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// statusRequest is the request body for a moderation status change.
type statusRequest struct {
	Status string `json:"status"`
}

// CreateListing creates a new listing. Title, positive price, category, and
// brand are required; the listing starts in active status.
func (h *ListingsHandler) CreateListing(c echo.Context) error {
	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResp("invalid request body"))
	}

	if req.Title == "" || req.Category == "" || req.Brand == "" {
		return c.JSON(http.StatusBadRequest, errResp("title, category, and brand are required"))
	}
	if req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, errResp("price must be positive"))
	}
	if req.BatteryHealth != nil && (*req.BatteryHealth < 0 || *req.BatteryHealth > 100) {
		return c.JSON(http.StatusBadRequest, errResp("battery_health must be between 0 and 100"))
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	listing := &domain.Listing{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		Currency:      currency,
		Category:      domain.Category(req.Category),
		Brand:         req.Brand,
		Condition:     domain.Condition(req.Condition),
		BatteryHealth: req.BatteryHealth,
		SellerName:    req.SellerName,
		Status:        domain.StatusActive,
	}

	if err := h.store.CreateListing(c.Request().Context(), listing); err != nil {
		return c.JSON(http.StatusInternalServerError, errResp("creating listing failed"))
	}

	return c.JSON(http.StatusCreated, listing)
}

// GetListing returns a single listing by ID.
func (h *ListingsHandler) GetListing(c echo.Context) error {
	listing, err := h.store.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errResp("listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, errResp("getting listing failed"))
	}
	return c.JSON(http.StatusOK, listing)
}

// ListListings returns listings with optional filters for category, brand,
// status, price range, and pagination. Removed listings are excluded unless
// requested explicitly via status.
func (h *ListingsHandler) ListListings(c echo.Context) error {
	q := &store.ListingQuery{
		OrderBy: c.QueryParam("order_by"),
	}

	if v := c.QueryParam("category"); v != "" {
		q.Category = &v
	}
	if v := c.QueryParam("brand"); v != "" {
		q.Brand = &v
	}
	if v := c.QueryParam("status"); v != "" {
		q.Status = &v
	}
	if v := c.QueryParam("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errResp("invalid min_price"))
		}
		q.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errResp("invalid max_price"))
		}
		q.MaxPrice = &p
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errResp("invalid limit"))
		}
		q.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errResp("invalid offset"))
		}
		q.Offset = n
	}

	listings, total, err := h.store.ListListings(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errResp("listing query failed"))
	}

	if listings == nil {
		listings = []domain.Listing{}
	}

	return c.JSON(http.StatusOK, ListListingsResponse{
		Listings: listings,
		Total:    total,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
}

// SetStatus updates a listing's moderation status.
func (h *ListingsHandler) SetStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResp("invalid request body"))
	}

	status := domain.ListingStatus(req.Status)
	switch status {
	case domain.StatusActive, domain.StatusFlagged, domain.StatusRemoved:
	default:
		return c.JSON(http.StatusBadRequest, errResp("status must be active, flagged, or removed"))
	}

	err := h.store.SetListingStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errResp("listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, errResp("updating status failed"))
	}

	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}

func errResp(msg string) map[string]string {
	return map[string]string{"error": msg}
}
