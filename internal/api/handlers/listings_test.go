package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearmarket/market-appraiser/internal/store"
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

func newContext(
	method, target, body string,
) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func seedHandlerListing(t *testing.T, s store.Store) *domain.Listing {
	t.Helper()
	l := &domain.Listing{
		Title:     "iPhone 13 Pro",
		Price:     650,
		Currency:  "USD",
		Category:  domain.CategoryElectronics,
		Brand:     "Apple",
		Condition: domain.ConditionGood,
	}
	require.NoError(t, s.CreateListing(context.Background(), l))
	return l
}

func TestListingsHandler_CreateListing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErr    string
	}{
		{
			name: "valid listing",
			body: `{"title":"iPhone 13 Pro","price":650,"category":"electronics",
				"brand":"Apple","condition":"good","battery_health":92}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			body:       `{"price":650,"category":"electronics","brand":"Apple"}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "title, category, and brand are required",
		},
		{
			name:       "zero price",
			body:       `{"title":"X","price":0,"category":"electronics","brand":"Apple"}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "price must be positive",
		},
		{
			name:       "negative price",
			body:       `{"title":"X","price":-5,"category":"electronics","brand":"Apple"}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "price must be positive",
		},
		{
			name: "battery health out of range",
			body: `{"title":"X","price":100,"category":"electronics","brand":"Apple",
				"battery_health":120}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "battery_health",
		},
		{
			name:       "malformed JSON",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewListingsHandler(store.NewMemoryStore())
			c, rec := newContext(http.MethodPost, "/api/v1/listings", tt.body)

			require.NoError(t, h.CreateListing(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantErr != "" {
				assert.Contains(t, rec.Body.String(), tt.wantErr)
			}

			if tt.wantStatus == http.StatusCreated {
				var got domain.Listing
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.NotEmpty(t, got.ID)
				assert.Equal(t, domain.StatusActive, got.Status)
				assert.Equal(t, "USD", got.Currency)
			}
		})
	}
}

func TestListingsHandler_GetListing(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	h := NewListingsHandler(s)
	l := seedHandlerListing(t, s)

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		c, rec := newContext(http.MethodGet, "/", "")
		c.SetPath("/api/v1/listings/:id")
		c.SetParamNames("id")
		c.SetParamValues(l.ID)

		require.NoError(t, h.GetListing(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "iPhone 13 Pro")
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		c, rec := newContext(http.MethodGet, "/", "")
		c.SetPath("/api/v1/listings/:id")
		c.SetParamNames("id")
		c.SetParamValues("missing")

		require.NoError(t, h.GetListing(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListingsHandler_ListListings(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	h := NewListingsHandler(s)
	seedHandlerListing(t, s)
	seedHandlerListing(t, s)

	t.Run("lists all", func(t *testing.T) {
		t.Parallel()

		c, rec := newContext(http.MethodGet, "/api/v1/listings", "")
		require.NoError(t, h.ListListings(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got ListListingsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 2, got.Total)
		assert.Len(t, got.Listings, 2)
	})

	t.Run("brand filter", func(t *testing.T) {
		t.Parallel()

		c, rec := newContext(http.MethodGet, "/api/v1/listings?brand=Samsung", "")
		require.NoError(t, h.ListListings(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got ListListingsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Zero(t, got.Total)
		assert.NotNil(t, got.Listings)
	})

	t.Run("invalid min_price", func(t *testing.T) {
		t.Parallel()

		c, rec := newContext(http.MethodGet, "/api/v1/listings?min_price=abc", "")
		require.NoError(t, h.ListListings(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListingsHandler_SetStatus(t *testing.T) {
	t.Parallel()

	t.Run("flags listing", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		h := NewListingsHandler(s)
		l := seedHandlerListing(t, s)

		c, rec := newContext(http.MethodPatch, "/", `{"status":"flagged"}`)
		c.SetPath("/api/v1/listings/:id/status")
		c.SetParamNames("id")
		c.SetParamValues(l.ID)

		require.NoError(t, h.SetStatus(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		got, err := s.GetListing(context.Background(), l.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFlagged, got.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()

		s := store.NewMemoryStore()
		h := NewListingsHandler(s)
		l := seedHandlerListing(t, s)

		c, rec := newContext(http.MethodPatch, "/", `{"status":"archived"}`)
		c.SetPath("/api/v1/listings/:id/status")
		c.SetParamNames("id")
		c.SetParamValues(l.ID)

		require.NoError(t, h.SetStatus(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing listing", func(t *testing.T) {
		t.Parallel()

		h := NewListingsHandler(store.NewMemoryStore())

		c, rec := newContext(http.MethodPatch, "/", `{"status":"removed"}`)
		c.SetPath("/api/v1/listings/:id/status")
		c.SetParamNames("id")
		c.SetParamValues("missing")

		require.NoError(t, h.SetStatus(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
