package search

import (
	"strings"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// ApplyFilters narrows listings by the active facet selection. Non-empty
// dimensions are ANDed; tokens within a dimension are ORed. An empty
// selection passes everything through.
func ApplyFilters(listings []domain.Listing, f domain.FilterSelection) []domain.Listing {
	if f.Empty() {
		return listings
	}
	return keep(listings, func(l domain.Listing) bool {
		return matchesPlatforms(l, f.Platforms) &&
			matchesGenres(l, f.Genres) &&
			matchesPrices(l, f.Prices) &&
			matchesSources(l, f.Sources)
	})
}

// matchesPlatforms accepts a listing when any token equals its platform
// tag or appears in its title. Title fallback keeps untagged listings
// findable.
func matchesPlatforms(l domain.Listing, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	platform := strings.ToLower(l.Platform)
	title := strings.ToLower(l.Title)
	for _, tok := range tokens {
		t := strings.ToLower(tok)
		if platform == t || strings.Contains(title, t) {
			return true
		}
	}
	return false
}

func matchesGenres(l domain.Listing, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	genre := strings.ToLower(l.Genre)
	title := strings.ToLower(l.Title)
	for _, tok := range tokens {
		t := strings.ToLower(tok)
		if genre == t || strings.Contains(title, t) {
			return true
		}
	}
	return false
}

// matchesPrices parses the display price once; a listing whose price
// does not parse fails every bracket.
func matchesPrices(l domain.Listing, brackets []domain.PriceBracket) bool {
	if len(brackets) == 0 {
		return true
	}
	price, err := domain.ParsePrice(l.Price)
	if err != nil {
		return false
	}
	for _, b := range brackets {
		if b.Matches(price) {
			return true
		}
	}
	return false
}

func matchesSources(l domain.Listing, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	source := strings.ToLower(string(l.Source))
	for _, tok := range tokens {
		if source == strings.ToLower(tok) {
			return true
		}
	}
	return false
}
