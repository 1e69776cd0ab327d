package search

import (
	"strings"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// Special query keywords recognized after combination. These bypass the
// free-text match and narrow the merged set by a canned predicate.
const (
	queryTrending = "trending"
	queryUnder50  = "under $50"
	querySealed   = "sealed"
	queryRare     = "rare"
)

// ApplyQuery narrows the combined set by the search text. Special
// keywords select canned predicates; any other text is a
// case-insensitive substring match on title or description. Empty text
// passes everything through.
func ApplyQuery(listings []domain.Listing, query string) []domain.Listing {
	q := strings.ToLower(strings.TrimSpace(query))
	switch q {
	case "", queryTrending:
		return listings
	case queryUnder50:
		return keep(listings, func(l domain.Listing) bool {
			price, err := domain.ParsePrice(l.Price)
			return err == nil && price < 50
		})
	case querySealed:
		return keep(listings, func(l domain.Listing) bool {
			title := strings.ToLower(l.Title)
			desc := strings.ToLower(l.Description)
			return strings.Contains(title, "sealed") ||
				strings.Contains(desc, "sealed") ||
				strings.Contains(desc, "complete in box")
		})
	case queryRare:
		return keep(listings, func(l domain.Listing) bool {
			price, err := domain.ParsePrice(l.Price)
			return err == nil && price > 100
		})
	}
	return keep(listings, func(l domain.Listing) bool {
		return strings.Contains(strings.ToLower(l.Title), q) ||
			strings.Contains(strings.ToLower(l.Description), q)
	})
}

func keep(listings []domain.Listing, pred func(domain.Listing) bool) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if pred(l) {
			out = append(out, l)
		}
	}
	return out
}
