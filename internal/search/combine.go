// Package search aggregates provider results into one deduplicated,
// filtered and sorted listing set.
package search

import (
	"strings"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// Combine merges listing groups into one set deduplicated by lowercase
// title. Groups are processed in argument order and the result keeps
// first-seen key order, so re-combining a combined set is a no-op.
func Combine(policy domain.MergePolicy, groups ...[]domain.Listing) []domain.Listing {
	byTitle := make(map[string]domain.Listing)
	var order []string

	for _, group := range groups {
		for _, l := range group {
			key := strings.ToLower(l.Title)
			existing, seen := byTitle[key]
			if !seen {
				order = append(order, key)
				byTitle[key] = l
				continue
			}
			switch policy {
			case domain.MergeFirstWins:
				// keep existing
			case domain.MergePreferDetail:
				byTitle[key] = mergeDetail(existing, l)
			default:
				byTitle[key] = l
			}
		}
	}

	out := make([]domain.Listing, 0, len(order))
	for _, key := range order {
		out = append(out, byTitle[key])
	}
	return out
}

// mergeDetail keeps the later listing but backfills platform, genre and
// image from the earlier one when the later value is missing. The stock
// placeholder counts as a missing image.
func mergeDetail(earlier, later domain.Listing) domain.Listing {
	merged := later
	if merged.Platform == "" {
		merged.Platform = earlier.Platform
	}
	if merged.Genre == "" {
		merged.Genre = earlier.Genre
	}
	if merged.Image == "" || merged.Image == domain.PlaceholderImage {
		merged.Image = earlier.Image
	}
	return merged
}
