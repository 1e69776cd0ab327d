// Package jjgames implements the JJGames storefront provider backed by
// the Ecwid catalog API.
package jjgames

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/lootscout/lootscout/internal/provider"
	domain "github.com/lootscout/lootscout/pkg/types"
)

const (
	defaultBaseURL = "https://app.ecwid.com/api/v3"
	defaultStoreID = "1003"

	// Ecwid rejects plain requests without a browser-ish user agent.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36"

	maxDescriptionLen = 200
)

// Client searches the JJGames Ecwid catalog and converts the results
// into canonical listings. Out-of-stock products are skipped.
type Client struct {
	baseURL string
	storeID string
	client  *resty.Client
}

var _ provider.Provider = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the default Ecwid API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithStoreID overrides the default store ID.
func WithStoreID(id string) Option {
	return func(c *Client) {
		c.storeID = id
	}
}

// WithRestyClient overrides the default HTTP client.
func WithRestyClient(rc *resty.Client) Option {
	return func(c *Client) {
		c.client = rc
	}
}

// New creates a JJGames catalog client.
func New(opts ...Option) *Client {
	rc := resty.New()
	rc.SetHeader("User-Agent", userAgent)
	rc.SetHeader("Accept", "application/json")
	rc.SetHeader("Referer", "https://www.jjgames.com/")

	c := &Client{
		baseURL: defaultBaseURL,
		storeID: defaultStoreID,
		client:  rc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements provider.Provider.
func (c *Client) Name() domain.Source {
	return domain.SourceJJGames
}

type searchResponse struct {
	Items []catalogItem `json:"items"`
}

type catalogItem struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Price        catalogCost `json:"price"`
	ThumbnailURL string      `json:"thumbnailUrl"`
	InStock      *bool       `json:"inStock"`
}

type catalogCost struct {
	Formatted string `json:"formatted"`
}

// Fetch implements provider.Provider by querying the catalog search
// endpoint.
func (c *Client) Fetch(ctx context.Context, q provider.Query) ([]domain.Listing, error) {
	limit := q.MaxResults
	if limit <= 0 {
		limit = 16
	}

	var body searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("keyword", q.Text).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&body).
		Get(fmt.Sprintf("%s/%s/search", c.baseURL, c.storeID))
	if err != nil {
		return nil, fmt.Errorf("executing catalog search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog API error (status %d): %s", resp.StatusCode(), resp.String())
	}

	listings := make([]domain.Listing, 0, len(body.Items))
	for _, item := range body.Items {
		l, ok := c.toListing(item, q.Platform)
		if !ok {
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// toListing converts one catalog item. It reports false for items that
// should be dropped: out of stock, or not matching the platform hint.
func (c *Client) toListing(item catalogItem, platform string) (domain.Listing, bool) {
	if item.InStock != nil && !*item.InStock {
		return domain.Listing{}, false
	}
	if platform != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(platform)) {
		return domain.Listing{}, false
	}

	price := item.Price.Formatted
	if price == "" {
		price = "Price not available"
	}

	image := item.ThumbnailURL
	if image == "" {
		image = domain.PlaceholderImage
	}

	return domain.Listing{
		ID:          fmt.Sprintf("jjgames-%d", item.ID),
		Title:       item.Name,
		Description: describe(item.Description),
		Price:       price,
		Source:      domain.SourceJJGames,
		Time:        domain.TimeFallback,
		Image:       image,
		Condition:   conditionFromTitle(item.Name),
		URL:         fmt.Sprintf("https://www.jjgames.com/#!/~/product/%d", item.ID),
		Platform:    domain.InferPlatform(item.Name),
	}, true
}

func describe(desc string) string {
	if desc == "" {
		desc = "From JJGames.com"
	} else if runes := []rune(desc); len(runes) > maxDescriptionLen {
		desc = string(runes[:maxDescriptionLen]) + "..."
	}
	return desc + " • In Stock"
}

// conditionFromTitle derives an approximate condition from the product
// name. The catalog has no structured condition field.
func conditionFromTitle(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "new"):
		return "New"
	case strings.Contains(lower, "sealed"):
		return "Sealed"
	case strings.Contains(lower, "complete"), strings.Contains(lower, "cib"):
		return "Complete"
	case strings.Contains(lower, "loose"):
		return "Loose"
	}
	return "Used"
}
