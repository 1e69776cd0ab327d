package ebay

import (
	"time"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// toListings converts Finding API item summaries into canonical listings.
func toListings(items []findingItem, now time.Time) []domain.Listing {
	listings := make([]domain.Listing, 0, len(items))
	for i := range items {
		listings = append(listings, toListing(&items[i], now))
	}
	return listings
}

func toListing(item *findingItem, now time.Time) domain.Listing {
	title := first(item.Title)
	if title == "" {
		title = "Unknown Title"
	}

	condition := item.condition()
	if condition == "" {
		condition = "Unknown"
	}

	// Subtitle doubles as the description; fall back to the condition so
	// the free-text query filter has something to match against.
	description := first(item.Subtitle)
	if description == "" {
		description = "Condition: " + condition
	}

	image := first(item.GalleryURL)
	if image == "" {
		image = domain.PlaceholderImage
	}

	l := domain.Listing{
		ID:          first(item.ItemID),
		Title:       title,
		Description: description,
		Price:       formatPrice(item.price()),
		Source:      domain.SourceEbay,
		Time:        formatStartTime(item.startTime(), now),
		Image:       image,
		Condition:   condition,
		URL:         first(item.ViewItemURL),
		Platform:    domain.InferPlatform(title),
	}

	return l
}

func formatPrice(raw string) string {
	v, err := domain.ParsePrice(raw)
	if err != nil {
		// Defect input: keep the raw string so the defect is visible
		// downstream instead of inventing a zero price.
		return raw
	}
	return domain.FormatPrice(v)
}

func formatStartTime(iso string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return domain.TimeFallback
	}
	return domain.TimeAgo(t, now)
}
