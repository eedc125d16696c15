package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gearmarket/market-appraiser/internal/metrics"
)

const defaultFetchLimit = 50

// FeedClient implements Client against the sold-listings feed HTTP API.
// Authentication is a static API key sent on every request.
type FeedClient struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	rateLimiter *RateLimiter
}

// FeedOption configures the FeedClient.
type FeedOption func(*FeedClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) FeedOption {
	return func(c *FeedClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter that controls per-second and daily
// call limits. When set, every FetchSales() call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) FeedOption {
	return func(c *FeedClient) {
		c.rateLimiter = r
	}
}

// NewFeedClient creates a new sold-listings feed client.
func NewFeedClient(baseURL, apiKey string, opts ...FeedOption) *FeedClient {
	c := &FeedClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type feedAPIResponse struct {
	Sales  []SaleRecord `json:"sales"`
	Total  int          `json:"total"`
	Offset int          `json:"offset"`
	Limit  int          `json:"limit"`
	Next   string       `json:"next"`
}

// FetchSales implements Client.FetchSales by querying the feed's sold-listings
// endpoint.
func (c *FeedClient) FetchSales(
	ctx context.Context,
	req FetchRequest,
) (*FetchResponse, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.MarketDataDailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.MarketDataCallsTotal.Inc()
	}

	u := c.buildFetchURL(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing fetch request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"feed API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp feedAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing fetch response: %w", err)
	}

	return &FetchResponse{
		Sales:   apiResp.Sales,
		Total:   apiResp.Total,
		Offset:  apiResp.Offset,
		Limit:   apiResp.Limit,
		HasMore: apiResp.Next != "",
	}, nil
}

func (c *FeedClient) buildFetchURL(req FetchRequest) string {
	params := url.Values{}
	params.Set("category", req.Category)
	params.Set("brand", req.Brand)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultFetchLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	if req.Offset > 0 {
		params.Set("offset", strconv.Itoa(req.Offset))
	}

	if !req.SoldAfter.IsZero() {
		params.Set("sold_after", req.SoldAfter.UTC().Format(time.RFC3339))
	}

	return c.baseURL + "/v1/sales?" + params.Encode()
}
