package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAlert(discountPct float64) AlertPayload {
	return AlertPayload{
		ListingID:      "d2719f0e-5a5c-4c2f-9d3e-0f1a2b3c4d5e",
		ListingTitle:   "iPhone 13 Pro 256GB",
		ImageURL:       "https://cdn.gearmarket.example/img/iphone13.jpg",
		AskingPrice:    "$450.00",
		EstimatedValue: "$550.00",
		DiscountPct:    discountPct,
		Confidence:     80,
		Category:       "electronics",
		Brand:          "Apple",
		Condition:      "good",
	}
}

func TestDiscordNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		alert      AlertPayload
		statusCode int
		wantErr    bool
		errMsg     string
		wantColor  int
	}{
		{
			name:       "valid alert sends embed",
			alert:      testAlert(18),
			statusCode: http.StatusNoContent,
			wantColor:  colorOrange,
		},
		{
			name:       "discount 30 uses green color",
			alert:      testAlert(30),
			statusCode: http.StatusNoContent,
			wantColor:  colorGreen,
		},
		{
			name:       "discount 22 uses yellow color",
			alert:      testAlert(22),
			statusCode: http.StatusNoContent,
			wantColor:  colorYellow,
		},
		{
			name:       "discord returns 429 rate limited",
			alert:      testAlert(22),
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "discord returns 400 error",
			alert:      testAlert(22),
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "discord returned 400",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					err := json.NewDecoder(r.Body).Decode(&received)
					assert.NoError(t, err)

					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			d := NewDiscordNotifier(srv.URL)
			err := d.SendAlert(context.Background(), &tt.alert)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			require.Len(t, received.Embeds, 1)

			embed := received.Embeds[0]
			assert.Equal(t, tt.wantColor, embed.Color)
			assert.Contains(t, embed.Title, tt.alert.ListingTitle)
			assert.NotNil(t, embed.Thumbnail)
			assert.Equal(t, tt.alert.ImageURL, embed.Thumbnail.URL)

			// Verify fields.
			fieldMap := make(map[string]string)
			for _, f := range embed.Fields {
				f := f
				fieldMap[f.Name] = f.Value
			}
			assert.Equal(t, tt.alert.AskingPrice, fieldMap["Asking Price"])
			assert.Equal(t, tt.alert.EstimatedValue, fieldMap["Estimated Value"])
			assert.Equal(t, fmt.Sprintf("%.1f%%", tt.alert.DiscountPct), fieldMap["Discount"])
		})
	}
}

func TestDiscordNotifier_SendAlert_NoImage(t *testing.T) {
	t.Parallel()

	var received discordWebhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	alert := testAlert(25)
	alert.ImageURL = ""

	d := NewDiscordNotifier(srv.URL)
	err := d.SendAlert(context.Background(), &alert)
	require.NoError(t, err)

	require.Len(t, received.Embeds, 1)
	assert.Nil(t, received.Embeds[0].Thumbnail)
}

func TestDiscordNotifier_SendBatchAlert(t *testing.T) {
	t.Parallel()

	var received discordWebhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	alerts := make([]AlertPayload, 3)
	for i := range alerts {
		alerts[i] = testAlert(float64(20 + i))
	}

	d := NewDiscordNotifier(srv.URL)
	err := d.SendBatchAlert(context.Background(), alerts)
	require.NoError(t, err)

	assert.Len(t, received.Embeds, 3)
}

func TestDiscordNotifier_SendBatchAlert_Overflow(t *testing.T) {
	t.Parallel()

	var received discordWebhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	alerts := make([]AlertPayload, 13)
	for i := range alerts {
		alerts[i] = testAlert(20)
	}

	d := NewDiscordNotifier(srv.URL)
	err := d.SendBatchAlert(context.Background(), alerts)
	require.NoError(t, err)

	// 10 embeds plus the overflow summary.
	require.Len(t, received.Embeds, 11)
	assert.Contains(t, received.Embeds[10].Title, "3 more deal alerts")
}

func TestDiscordNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("http://127.0.0.1:1") // nothing listening
	alert := testAlert(22)
	err := d.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

func TestDiscordNotifier_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("://not-a-valid-url")
	alert := testAlert(22)
	err := d.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating discord request")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	d := NewDiscordNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, d.client)
}
