// Package vgny implements the VideoGamesNewYork storefront provider by
// scraping its search page.
package vgny

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/lootscout/lootscout/internal/provider"
	domain "github.com/lootscout/lootscout/pkg/types"
)

const (
	defaultBaseURL = "https://videogamesnewyork.com"

	userAgent = "LootScout/1.0 (https://lootscout.app; info@lootscout.app)"

	maxSummaryLen = 100
)

// Scraper searches the VideoGamesNewYork storefront and extracts product
// cards from the result page HTML.
type Scraper struct {
	baseURL string
	client  *http.Client
}

var _ provider.Provider = (*Scraper)(nil)

// Option configures the Scraper.
type Option func(*Scraper)

// WithBaseURL overrides the default storefront URL.
func WithBaseURL(u string) Option {
	return func(s *Scraper) {
		s.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) {
		s.client = hc
	}
}

// New creates a storefront scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements provider.Provider.
func (s *Scraper) Name() domain.Source {
	return domain.SourceVGNY
}

// Fetch implements provider.Provider by scraping the search result page.
func (s *Scraper) Fetch(ctx context.Context, q provider.Query) ([]domain.Listing, error) {
	params := url.Values{}
	params.Set("search_query", q.Text)
	params.Set("section", "product")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search.php?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storefront error (status %d)", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing search page: %w", err)
	}

	limit := q.MaxResults
	if limit <= 0 {
		limit = 16
	}

	cards := doc.Find("li.product")
	if cards.Length() == 0 {
		// The grid markup varies between theme versions.
		cards = doc.Find(".productGrid li")
	}

	var listings []domain.Listing
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(listings) >= limit {
			return false
		}
		l, ok := s.parseCard(card, q.Platform)
		if ok {
			listings = append(listings, l)
		}
		return true
	})
	return listings, nil
}

// parseCard extracts one listing from a product card. It reports false
// when the card has no usable title link or fails the platform hint.
func (s *Scraper) parseCard(card *goquery.Selection, platform string) (domain.Listing, bool) {
	root := card.Find("article.card").First()
	if root.Length() == 0 {
		root = card
	}

	titleLink := root.Find("h4.card-title a").First()
	if titleLink.Length() == 0 {
		titleLink = root.Find(".card-title a").First()
	}
	if titleLink.Length() == 0 {
		return domain.Listing{}, false
	}

	title := strings.TrimSpace(titleLink.Text())
	href, _ := titleLink.Attr("href")
	productURL := s.absolute(href)

	if platform != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(platform)) {
		return domain.Listing{}, false
	}

	return domain.Listing{
		ID:          fmt.Sprintf("vgny-%d", urlHash(productURL)),
		Title:       title,
		Description: s.summary(root),
		Price:       s.price(root),
		Source:      domain.SourceVGNY,
		Time:        domain.TimeFallback,
		Image:       s.image(root),
		Condition:   conditionFromTitle(title),
		URL:         productURL,
		Platform:    domain.InferPlatform(title),
	}, true
}

func (s *Scraper) price(root *goquery.Selection) string {
	for _, sel := range []string{
		".price.price--withoutTax.price--main",
		".price--withoutTax",
		".price",
	} {
		if elem := root.Find(sel).First(); elem.Length() > 0 {
			if text := strings.TrimSpace(elem.Text()); text != "" {
				return text
			}
		}
	}
	return "Price not available"
}

func (s *Scraper) image(root *goquery.Selection) string {
	img := root.Find(".card-figure img").First()
	if img.Length() == 0 {
		img = root.Find("img").First()
	}
	src, _ := img.Attr("src")
	if src == "" {
		return domain.PlaceholderImage
	}
	return s.absolute(src)
}

func (s *Scraper) summary(root *goquery.Selection) string {
	text := strings.TrimSpace(root.Find(".card-text--summary").First().Text())
	if text == "" {
		return "From VideoGamesNewYork.com"
	}
	if runes := []rune(text); len(runes) > maxSummaryLen {
		return string(runes[:maxSummaryLen]) + "..."
	}
	return text
}

func (s *Scraper) absolute(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return s.baseURL + href
}

func urlHash(u string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(u))
	return h.Sum32()
}

func conditionFromTitle(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "new"):
		return "New"
	case strings.Contains(lower, "sealed"):
		return "Sealed"
	case strings.Contains(lower, "complete"):
		return "Complete"
	}
	return "Used"
}
