package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearmarket/market-appraiser/internal/store"
)

func TestDiagnosticsHandler_CreateDiagnostic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid report",
			body:       `{"battery_health":92,"performance_score":88,"overall_condition":"good"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "battery out of range",
			body:       `{"battery_health":101,"performance_score":88,"overall_condition":"good"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative performance score",
			body:       `{"battery_health":92,"performance_score":-1,"overall_condition":"good"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown condition",
			body:       `{"battery_health":92,"performance_score":88,"overall_condition":"mint"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := store.NewMemoryStore()
			h := NewDiagnosticsHandler(s)
			l := seedHandlerListing(t, s)

			c, rec := newContext(http.MethodPost, "/", tt.body)
			c.SetPath("/api/v1/listings/:id/diagnostics")
			c.SetParamNames("id")
			c.SetParamValues(l.ID)

			require.NoError(t, h.CreateDiagnostic(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	t.Run("missing listing", func(t *testing.T) {
		t.Parallel()

		h := NewDiagnosticsHandler(store.NewMemoryStore())

		c, rec := newContext(http.MethodPost, "/",
			`{"battery_health":92,"performance_score":88,"overall_condition":"good"}`)
		c.SetPath("/api/v1/listings/:id/diagnostics")
		c.SetParamNames("id")
		c.SetParamValues("missing")

		require.NoError(t, h.CreateDiagnostic(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDiagnosticsHandler_GetLatestDiagnostic(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	h := NewDiagnosticsHandler(s)
	l := seedHandlerListing(t, s)

	t.Run("no reports yet", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/", "")
		c.SetPath("/api/v1/listings/:id/diagnostics")
		c.SetParamNames("id")
		c.SetParamValues(l.ID)

		require.NoError(t, h.GetLatestDiagnostic(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("latest report wins", func(t *testing.T) {
		for _, body := range []string{
			`{"battery_health":70,"performance_score":60,"overall_condition":"fair"}`,
			`{"battery_health":95,"performance_score":90,"overall_condition":"excellent"}`,
		} {
			body := body
			c, rec := newContext(http.MethodPost, "/", body)
			c.SetPath("/api/v1/listings/:id/diagnostics")
			c.SetParamNames("id")
			c.SetParamValues(l.ID)
			require.NoError(t, h.CreateDiagnostic(c))
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		c, rec := newContext(http.MethodGet, "/", "")
		c.SetPath("/api/v1/listings/:id/diagnostics")
		c.SetParamNames("id")
		c.SetParamValues(l.ID)

		require.NoError(t, h.GetLatestDiagnostic(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "excellent")
	})
}
