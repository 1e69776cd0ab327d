package search

import (
	"sort"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// Sort orders listings in place. Price sorts compare the parsed numeric
// price; listings with unparseable prices sink to the end. Recency sort
// compares relative-time buckets (hours before days before weeks) and
// leaves listings in unrecognized buckets where they are. All sorts are
// stable so equal elements keep their combined order.
func Sort(listings []domain.Listing, order domain.SortOrder) {
	switch order {
	case domain.SortPriceAsc:
		sortByPrice(listings, false)
	case domain.SortPriceDesc:
		sortByPrice(listings, true)
	case domain.SortRecency:
		sort.SliceStable(listings, func(i, j int) bool {
			return domain.LessRecent(listings[i].Time, listings[j].Time)
		})
	}
}

func sortByPrice(listings []domain.Listing, desc bool) {
	type entry struct {
		listing domain.Listing
		price   float64
		parsed  bool
	}
	entries := make([]entry, len(listings))
	for i, l := range listings {
		p, err := domain.ParsePrice(l.Price)
		entries[i] = entry{listing: l, price: p, parsed: err == nil}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		if !a.parsed {
			return false
		}
		if desc {
			return a.price > b.price
		}
		return a.price < b.price
	})
	for i, e := range entries {
		listings[i] = e.listing
	}
}
