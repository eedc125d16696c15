package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListListings(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/listings", r.URL.Path)
		assert.Equal(t, "electronics", r.URL.Query().Get("category"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"listings":[{"id":"l-1","title":"iPhone"}],"total":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.ListListings(context.Background(), &ListListingsParams{
		Category: "electronics",
		Limit:    25,
	})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "iPhone", resp.Listings[0].Title)
	assert.Equal(t, 1, resp.Total)
}

func TestClient_GetValue(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/listings/l-1/value", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"baseMarketValue": 500,
			"finalValue": 550,
			"conditionMultiplier": 1.1,
			"confidence": 80,
			"marketRange": {"min": 400, "max": 600}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.GetValue(context.Background(), "l-1")
	require.NoError(t, err)
	assert.Equal(t, 550.0, result.FinalValue)
	assert.Equal(t, 80, result.Confidence)
	assert.Equal(t, 400.0, result.MarketRange.Min)
}

func TestClient_SetListingStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/listings/l-1/status", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SetListingStatus(context.Background(), "l-1", "flagged"))
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"listing not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetListing(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Contains(t, err.Error(), "listing not found")
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1")
	_, err := c.ListPendingAlerts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}
