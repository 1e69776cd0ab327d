// Package domain defines the core business types for LootScout.
package domain

import "time"

// Source identifies the provider a listing came from.
type Source string

// Source constants.
const (
	SourceEbay       Source = "ebay"
	SourceJJGames    Source = "jjgames"
	SourceVGNY       Source = "vgny"
	SourceDKOldies   Source = "dkoldies"
	SourceLukieGames Source = "lukiegames"
	SourceCatalog    Source = "catalog"
)

// ValidSource reports whether s is a known source tag.
func ValidSource(s Source) bool {
	switch s {
	case SourceEbay, SourceJJGames, SourceVGNY, SourceDKOldies, SourceLukieGames, SourceCatalog:
		return true
	}
	return false
}

// PlaceholderImage is used for listings without an image URL.
const PlaceholderImage = "https://via.placeholder.com/300x300?text=No+Image"

// Listing represents one normalized marketplace or auction item.
//
// ID is unique per source only; the same ID from two different sources is
// not the same item. Deduplication identity is the lowercase title.
type Listing struct {
	ID          string `json:"id"          required:"false"`
	Title       string `json:"title"       required:"false"`
	Description string `json:"description" required:"false"`
	Price       string `json:"price"       required:"false"` // "$<number>", usually two decimals
	Source      Source `json:"source"      required:"false"`
	Time        string `json:"time"        required:"false"` // relative, e.g. "2 hours ago"
	Image       string `json:"image"       required:"false"`
	Condition   string `json:"condition"   required:"false"`
	URL         string `json:"url"         required:"false"`
	Platform    string `json:"platform,omitempty"`
	Genre       string `json:"genre,omitempty"` // catalog-sourced listings only
}

// Favorite is a saved listing snapshot for a user.
type Favorite struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Listing   Listing   `json:"listing"`
	CreatedAt time.Time `json:"created_at"`
}

// TrendingEntry is a listing in the trending ranking, tagged with how it
// got there. Manually curated entries always rank before auto entries.
type TrendingEntry struct {
	Listing Listing `json:"listing"`
	Manual  bool    `json:"manual"`
	// FavoriteCount is the number of favorites in the auto window.
	// Zero for manual entries.
	FavoriteCount int `json:"favorite_count,omitempty"`
}

// SortOrder selects the ordering of search results.
type SortOrder string

// Sort order constants.
const (
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortRecency   SortOrder = "recency"
)

// ValidSortOrder reports whether s is a recognized sort order.
func ValidSortOrder(s SortOrder) bool {
	switch s {
	case SortPriceAsc, SortPriceDesc, SortRecency:
		return true
	}
	return false
}

// PriceBracket is a facet token selecting a numeric price range.
type PriceBracket string

// Price bracket constants.
const (
	BracketUnder25  PriceBracket = "under-25"
	BracketUnder50  PriceBracket = "under-50"
	BracketUnder100 PriceBracket = "under-100"
	BracketOver100  PriceBracket = "over-100"
)

// Matches reports whether the parsed price falls inside the bracket.
func (b PriceBracket) Matches(price float64) bool {
	switch b {
	case BracketUnder25:
		return price < 25
	case BracketUnder50:
		return price < 50
	case BracketUnder100:
		return price < 100
	case BracketOver100:
		return price >= 100
	}
	return false
}

// FilterSelection holds the active facet tokens for one search. All four
// dimensions are empty by default; an empty dimension does not narrow.
type FilterSelection struct {
	Platforms []string       `json:"platforms,omitempty"`
	Genres    []string       `json:"genres,omitempty"`
	Prices    []PriceBracket `json:"prices,omitempty"`
	Sources   []string       `json:"sources,omitempty"`
}

// Empty reports whether no facet dimension is active.
func (f FilterSelection) Empty() bool {
	return len(f.Platforms) == 0 && len(f.Genres) == 0 &&
		len(f.Prices) == 0 && len(f.Sources) == 0
}

// MergePolicy controls which listing wins when two sources produce the
// same title.
type MergePolicy string

// Merge policy constants.
const (
	// MergeLastWins keeps the listing from the last source processed.
	// This matches the historical behavior of the merge map.
	MergeLastWins MergePolicy = "last-wins"
	// MergeFirstWins keeps the listing from the first source processed.
	MergeFirstWins MergePolicy = "first-wins"
	// MergePreferDetail keeps the last-seen listing but backfills empty
	// platform, genre and image fields from the earlier one.
	MergePreferDetail MergePolicy = "prefer-detail"
)

// ValidMergePolicy reports whether p is a recognized merge policy.
func ValidMergePolicy(p MergePolicy) bool {
	switch p {
	case MergeLastWins, MergeFirstWins, MergePreferDetail:
		return true
	}
	return false
}
