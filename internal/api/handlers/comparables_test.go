package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearmarket/market-appraiser/internal/store"
)

func TestComparablesHandler_CreateAndList(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	h := NewComparablesHandler(s)

	for _, body := range []string{
		`{"category":"electronics","brand":"Apple","market_price":620,"source":"manual"}`,
		`{"category":"electronics","brand":"Apple","market_price":580,"source":"manual"}`,
		`{"category":"audio","brand":"Sony","market_price":120}`,
	} {
		body := body
		c, rec := newContext(http.MethodPost, "/api/v1/comparables", body)
		require.NoError(t, h.CreateComparable(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	c, rec := newContext(http.MethodGet, "/api/v1/comparables?category=electronics&brand=Apple", "")
	require.NoError(t, h.ListComparables(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got ListComparablesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
}

func TestComparablesHandler_Validation(t *testing.T) {
	t.Parallel()

	h := NewComparablesHandler(store.NewMemoryStore())

	t.Run("create requires positive price", func(t *testing.T) {
		t.Parallel()

		c, rec := newContext(http.MethodPost, "/api/v1/comparables",
			`{"category":"electronics","brand":"Apple","market_price":0}`)
		require.NoError(t, h.CreateComparable(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list requires segment", func(t *testing.T) {
		t.Parallel()

		c, rec := newContext(http.MethodGet, "/api/v1/comparables?category=electronics", "")
		require.NoError(t, h.ListComparables(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list rejects bad limit", func(t *testing.T) {
		t.Parallel()

		c, rec := newContext(http.MethodGet,
			"/api/v1/comparables?category=electronics&brand=Apple&limit=-1", "")
		require.NoError(t, h.ListComparables(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty segment returns empty array", func(t *testing.T) {
		t.Parallel()

		c, rec := newContext(http.MethodGet,
			"/api/v1/comparables?category=gaming&brand=Valve", "")
		require.NoError(t, h.ListComparables(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"comparables":[]`)
	})
}
