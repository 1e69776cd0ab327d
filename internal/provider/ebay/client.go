// Package ebay implements the eBay Finding API listing provider.
package ebay

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

	"github.com/lootscout/lootscout/internal/metrics"
	"github.com/lootscout/lootscout/internal/provider"
	domain "github.com/lootscout/lootscout/pkg/types"
)

const (
	defaultEndpoint   = "https://svcs.ebay.com/services/search/FindingService/v1"
	defaultCategoryID = "139973" // Video Games
)

// Client queries the eBay Finding API and converts the results into
// canonical listings.
type Client struct {
	appID       string
	endpoint    string
	categoryID  string
	client      *http.Client
	rateLimiter *RateLimiter
	nowFunc     func() time.Time
}

var _ provider.Provider = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the default Finding API endpoint.
func WithEndpoint(u string) Option {
	return func(c *Client) {
		c.endpoint = u
	}
}

// WithCategoryID overrides the default search category.
func WithCategoryID(id string) Option {
	return func(c *Client) {
		c.categoryID = id
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter injects a limiter that bounds per-second and daily API
// calls. When set, every Fetch goes through Wait first.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithNowFunc overrides the time source used for relative timestamps.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = f
	}
}

// New creates a Finding API client keyed by the application ID.
func New(appID string, opts ...Option) *Client {
	c := &Client{
		appID:      appID,
		endpoint:   defaultEndpoint,
		categoryID: defaultCategoryID,
		client:     &http.Client{Timeout: 30 * time.Second},
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements provider.Provider.
func (c *Client) Name() domain.Source {
	return domain.SourceEbay
}

// Fetch implements provider.Provider by issuing a findItemsByKeywords
// request and converting the item summaries.
func (c *Client) Fetch(ctx context.Context, q provider.Query) ([]domain.Listing, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.EbayDailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.EbayDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(q), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing finding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"eBay API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp findingResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing finding response: %w", err)
	}

	return toListings(apiResp.items(), c.nowFunc()), nil
}

func (c *Client) buildURL(q provider.Query) string {
	// The Finding API takes a flattened keyword list; the platform hint
	// and a "video game" suffix narrow the category the same way the
	// storefront search box does.
	keywords := q.Text
	if q.Platform != "" {
		keywords += " " + q.Platform
	}
	keywords += " video game"

	limit := q.MaxResults
	if limit <= 0 {
		limit = 16
	}

	params := url.Values{}
	params.Set("OPERATION-NAME", "findItemsByKeywords")
	params.Set("SERVICE-VERSION", "1.0.0")
	params.Set("SECURITY-APPNAME", c.appID)
	params.Set("RESPONSE-DATA-FORMAT", "JSON")
	params.Set("REST-PAYLOAD", "true")
	params.Set("keywords", keywords)
	params.Set("categoryId", c.categoryID)
	params.Set("itemFilter(0).name", "ListingType")
	params.Set("itemFilter(0).value", "FixedPrice")
	params.Set("paginationInput.entriesPerPage", strconv.Itoa(limit))
	params.Set("sortOrder", "BestMatch")

	return c.endpoint + "?" + params.Encode()
}
