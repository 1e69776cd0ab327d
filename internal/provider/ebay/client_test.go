package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootscout/lootscout/internal/provider"
	domain "github.com/lootscout/lootscout/pkg/types"
)

const findingFixture = `{
  "findItemsByKeywordsResponse": [{
    "searchResult": [{
      "@count": "2",
      "item": [
        {
          "itemId": ["1001"],
          "title": ["Chrono Trigger SNES Cart Only"],
          "subtitle": ["Authentic, tested and working"],
          "galleryURL": ["https://img.example.com/1001.jpg"],
          "viewItemURL": ["https://www.ebay.com/itm/1001"],
          "sellingStatus": [{"currentPrice": [{"__value__": "129.99", "@currencyId": "USD"}]}],
          "condition": [{"conditionId": ["3000"], "conditionDisplayName": ["Very Good"]}],
          "listingInfo": [{"startTime": ["2024-06-13T12:00:00.000Z"]}]
        },
        {
          "itemId": ["1002"],
          "title": ["Mystery Game Lot"],
          "sellingStatus": [{"currentPrice": [{"__value__": "20", "@currencyId": "USD"}]}],
          "listingInfo": [{"startTime": ["not-a-timestamp"]}]
        }
      ]
    }]
  }]
}`

func TestClientFetch(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"OPERATION-NAME":   q.Get("OPERATION-NAME"),
			"SECURITY-APPNAME": q.Get("SECURITY-APPNAME"),
			"keywords":         q.Get("keywords"),
			"categoryId":       q.Get("categoryId"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(findingFixture))
	}))
	defer srv.Close()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	c := New("app-123",
		WithEndpoint(srv.URL),
		WithNowFunc(func() time.Time { return now }),
	)

	listings, err := c.Fetch(context.Background(), provider.Query{
		Text: "chrono trigger", Platform: "snes", MaxResults: 16,
	})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "findItemsByKeywords", gotQuery["OPERATION-NAME"])
	assert.Equal(t, "app-123", gotQuery["SECURITY-APPNAME"])
	assert.Equal(t, "chrono trigger snes video game", gotQuery["keywords"])
	assert.Equal(t, "139973", gotQuery["categoryId"])

	got := listings[0]
	assert.Equal(t, "1001", got.ID)
	assert.Equal(t, "Chrono Trigger SNES Cart Only", got.Title)
	assert.Equal(t, "Authentic, tested and working", got.Description)
	assert.Equal(t, "$129.99", got.Price)
	assert.Equal(t, domain.SourceEbay, got.Source)
	assert.Equal(t, "2 days ago", got.Time)
	assert.Equal(t, "Very Good", got.Condition)
	assert.Equal(t, "https://www.ebay.com/itm/1001", got.URL)
	assert.Equal(t, "snes", got.Platform)

	// Sparse item degrades field by field, never errors.
	sparse := listings[1]
	assert.Equal(t, "$20.00", sparse.Price)
	assert.Equal(t, domain.TimeFallback, sparse.Time)
	assert.Equal(t, "Unknown", sparse.Condition)
	assert.Equal(t, "Condition: Unknown", sparse.Description)
	assert.Equal(t, domain.PlaceholderImage, sparse.Image)
}

func TestClientFetchEmptyResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"findItemsByKeywordsResponse": [{"searchResult": [{"@count": "0"}]}]}`))
	}))
	defer srv.Close()

	c := New("app-123", WithEndpoint(srv.URL))
	listings, err := c.Fetch(context.Background(), provider.Query{Text: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestClientFetchUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New("app-123", WithEndpoint(srv.URL))
	_, err := c.Fetch(context.Background(), provider.Query{Text: "zelda"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestClientFetchMalformedPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer srv.Close()

	c := New("app-123", WithEndpoint(srv.URL))
	_, err := c.Fetch(context.Background(), provider.Query{Text: "zelda"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing finding response")
}
