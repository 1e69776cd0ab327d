// Package catalog implements a static curated listing provider. It is
// the only source that carries genre tags, and it backs the default
// browse view when a search arrives with no query text.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lootscout/lootscout/internal/provider"
	domain "github.com/lootscout/lootscout/pkg/types"
)

//go:embed catalog.json
var embeddedCatalog []byte

// Provider serves listings from an in-memory curated catalog.
type Provider struct {
	listings []domain.Listing
}

var _ provider.Provider = (*Provider)(nil)

// New creates a catalog provider from the embedded data.
func New() (*Provider, error) {
	return fromJSON(embeddedCatalog)
}

// NewFromFile creates a catalog provider from a JSON file on disk,
// overriding the embedded data.
func NewFromFile(path string) (*Provider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return fromJSON(raw)
}

func fromJSON(raw []byte) (*Provider, error) {
	var listings []domain.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("parsing catalog data: %w", err)
	}
	for i := range listings {
		listings[i].Source = domain.SourceCatalog
		if listings[i].Time == "" {
			listings[i].Time = domain.TimeFallback
		}
		if listings[i].Image == "" {
			listings[i].Image = domain.PlaceholderImage
		}
	}
	return &Provider{listings: listings}, nil
}

// Name implements provider.Provider.
func (p *Provider) Name() domain.Source {
	return domain.SourceCatalog
}

// Fetch implements provider.Provider. An empty query text returns the
// whole catalog; otherwise listings match when every query word appears
// in the title, genre or platform.
func (p *Provider) Fetch(_ context.Context, q provider.Query) ([]domain.Listing, error) {
	limit := q.MaxResults
	if limit <= 0 {
		limit = len(p.listings)
	}

	words := strings.Fields(strings.ToLower(q.Text))
	platform := strings.ToLower(q.Platform)

	var out []domain.Listing
	for _, l := range p.listings {
		if len(out) >= limit {
			break
		}
		if platform != "" && l.Platform != platform && !strings.Contains(strings.ToLower(l.Title), platform) {
			continue
		}
		if matches(l, words) {
			out = append(out, l)
		}
	}
	return out, nil
}

func matches(l domain.Listing, words []string) bool {
	if len(words) == 0 {
		return true
	}
	haystack := strings.ToLower(l.Title + " " + l.Genre + " " + l.Platform)
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}
