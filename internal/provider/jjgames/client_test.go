package jjgames

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootscout/lootscout/internal/provider"
	domain "github.com/lootscout/lootscout/pkg/types"
)

const searchFixture = `{
  "items": [
    {
      "id": 1234,
      "name": "Chrono Trigger SNES Complete in Box",
      "description": "Authentic Super Nintendo cartridge with box and manual.",
      "price": {"formatted": "$189.99"},
      "thumbnailUrl": "https://images.example.com/chrono.jpg",
      "inStock": true
    },
    {
      "id": 5678,
      "name": "Chrono Cross PS1 Loose",
      "description": "",
      "price": {"formatted": "$24.99"},
      "thumbnailUrl": "",
      "inStock": false
    },
    {
      "id": 9012,
      "name": "Chrono Trigger DS Sealed",
      "description": "",
      "price": {},
      "thumbnailUrl": ""
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL), WithStoreID("1003"))
}

func TestFetchConvertsItems(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1003/search", r.URL.Path)
		assert.Equal(t, "chrono", r.URL.Query().Get("keyword"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	})

	got, err := c.Fetch(context.Background(), provider.Query{Text: "chrono", MaxResults: 10})
	require.NoError(t, err)

	// The out-of-stock PS1 copy is dropped.
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "jjgames-1234", first.ID)
	assert.Equal(t, "Chrono Trigger SNES Complete in Box", first.Title)
	assert.Equal(t, "Authentic Super Nintendo cartridge with box and manual. • In Stock", first.Description)
	assert.Equal(t, "$189.99", first.Price)
	assert.Equal(t, domain.SourceJJGames, first.Source)
	assert.Equal(t, domain.TimeFallback, first.Time)
	assert.Equal(t, "https://images.example.com/chrono.jpg", first.Image)
	assert.Equal(t, "Complete", first.Condition)
	assert.Equal(t, "https://www.jjgames.com/#!/~/product/1234", first.URL)
	assert.Equal(t, "snes", first.Platform)

	sparse := got[1]
	assert.Equal(t, "jjgames-9012", sparse.ID)
	assert.Equal(t, "From JJGames.com • In Stock", sparse.Description)
	assert.Equal(t, "Price not available", sparse.Price)
	assert.Equal(t, domain.PlaceholderImage, sparse.Image)
	assert.Equal(t, "Sealed", sparse.Condition)
	assert.Equal(t, "ds", sparse.Platform)
}

func TestFetchPlatformFilter(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	})

	got, err := c.Fetch(context.Background(), provider.Query{Text: "chrono", Platform: "snes"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "jjgames-1234", got[0].ID)
}

func TestFetchTruncatesLongDescriptions(t *testing.T) {
	t.Parallel()

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":1,"name":"Earthbound SNES","description":"` + string(long) + `","price":{"formatted":"$350.00"},"inStock":true}]}`))
	})

	got, err := c.Fetch(context.Background(), provider.Query{Text: "earthbound"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, string(long[:200])+"... • In Stock", got[0].Description)
}

func TestDescribeTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", maxDescriptionLen+50)
	got := describe(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", maxDescriptionLen)+"... • In Stock", got)
}

func TestFetchServerError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := c.Fetch(context.Background(), provider.Query{Text: "mario"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchEmptyResult(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[]}`))
	})

	got, err := c.Fetch(context.Background(), provider.Query{Text: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConditionFromTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Pokemon Red Brand New", "New"},
		{"Zelda OOT Sealed", "Sealed"},
		{"Mario 64 Complete in Box", "Complete"},
		{"Mario 64 CIB", "Complete"},
		{"Mario Kart Loose Cart", "Loose"},
		{"Plain Old Cartridge", "Used"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, conditionFromTitle(tt.title))
		})
	}
}
