package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gearmarket/market-appraiser/internal/store"
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

const defaultComparablesLimit = 50

// ComparablesHandler handles comparable-sale query and insert endpoints.
type ComparablesHandler struct {
	store store.Store
}

// NewComparablesHandler creates a new ComparablesHandler.
func NewComparablesHandler(s store.Store) *ComparablesHandler {
	return &ComparablesHandler{store: s}
}

// CreateComparableRequest is the request body for recording a sale manually.
type CreateComparableRequest struct {
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	MarketPrice float64 `json:"market_price"`
	Source      string  `json:"source"`
}

// ListComparablesResponse is the comparable-sale query response.
type ListComparablesResponse struct {
	Comparables []domain.ComparableSale `json:"comparables"`
	Total       int                     `json:"total"`
}

// ListComparables returns the most recent comparable sales for a segment.
func (h *ComparablesHandler) ListComparables(c echo.Context) error {
	category := c.QueryParam("category")
	brand := c.QueryParam("brand")
	if category == "" || brand == "" {
		return c.JSON(http.StatusBadRequest, errResp("category and brand are required"))
	}

	limit := defaultComparablesLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, errResp("invalid limit"))
		}
		limit = n
	}

	seg := domain.Segment{Category: domain.Category(category), Brand: brand}
	comps, err := h.store.ListComparableSales(c.Request().Context(), seg, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errResp("comparable query failed"))
	}

	if comps == nil {
		comps = []domain.ComparableSale{}
	}

	return c.JSON(http.StatusOK, ListComparablesResponse{
		Comparables: comps,
		Total:       len(comps),
	})
}

// CreateComparable records a comparable sale directly, bypassing the feed.
func (h *ComparablesHandler) CreateComparable(c echo.Context) error {
	var req CreateComparableRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResp("invalid request body"))
	}

	if req.Category == "" || req.Brand == "" {
		return c.JSON(http.StatusBadRequest, errResp("category and brand are required"))
	}
	if req.MarketPrice <= 0 {
		return c.JSON(http.StatusBadRequest, errResp("market_price must be positive"))
	}

	sale := &domain.ComparableSale{
		Category:    domain.Category(req.Category),
		Brand:       req.Brand,
		MarketPrice: req.MarketPrice,
		Source:      req.Source,
	}

	if err := h.store.InsertComparableSale(c.Request().Context(), sale); err != nil {
		return c.JSON(http.StatusInternalServerError, errResp("saving comparable sale failed"))
	}

	return c.JSON(http.StatusCreated, sale)
}
