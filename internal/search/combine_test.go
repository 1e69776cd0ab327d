package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/lootscout/lootscout/pkg/types"
)

func listing(id, title string, source domain.Source) domain.Listing {
	return domain.Listing{
		ID:     id,
		Title:  title,
		Source: source,
		Price:  "$10.00",
		Image:  domain.PlaceholderImage,
	}
}

func TestCombineDisjointTitles(t *testing.T) {
	t.Parallel()

	a := []domain.Listing{
		listing("e1", "Chrono Trigger", domain.SourceEbay),
		listing("e2", "EarthBound", domain.SourceEbay),
	}
	b := []domain.Listing{
		listing("j1", "Super Metroid", domain.SourceJJGames),
	}

	got := Combine(domain.MergeLastWins, a, b)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Chrono Trigger", "EarthBound", "Super Metroid"},
		titles(got))
}

func TestCombineLastWinsKeepsFirstSeenOrder(t *testing.T) {
	t.Parallel()

	a := []domain.Listing{
		listing("e1", "Chrono Trigger", domain.SourceEbay),
		listing("e2", "EarthBound", domain.SourceEbay),
	}
	b := []domain.Listing{
		// Same title, different case: still the same item.
		listing("j1", "CHRONO TRIGGER", domain.SourceJJGames),
	}

	got := Combine(domain.MergeLastWins, a, b)
	require.Len(t, got, 2)
	// The later source wins the collision but keeps the earlier slot.
	assert.Equal(t, "j1", got[0].ID)
	assert.Equal(t, domain.SourceJJGames, got[0].Source)
	assert.Equal(t, "e2", got[1].ID)
}

func TestCombineFirstWins(t *testing.T) {
	t.Parallel()

	a := []domain.Listing{listing("e1", "Chrono Trigger", domain.SourceEbay)}
	b := []domain.Listing{listing("j1", "chrono trigger", domain.SourceJJGames)}

	got := Combine(domain.MergeFirstWins, a, b)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
}

func TestCombinePreferDetailBackfills(t *testing.T) {
	t.Parallel()

	earlier := listing("c1", "Chrono Trigger", domain.SourceCatalog)
	earlier.Platform = "snes"
	earlier.Genre = "rpg"
	earlier.Image = "https://images.example.com/chrono.jpg"

	later := listing("e1", "chrono trigger", domain.SourceEbay)
	later.Platform = ""
	later.Image = domain.PlaceholderImage

	got := Combine(domain.MergePreferDetail, []domain.Listing{earlier}, []domain.Listing{later})
	require.Len(t, got, 1)

	merged := got[0]
	// Later listing wins identity, earlier fills the holes.
	assert.Equal(t, "e1", merged.ID)
	assert.Equal(t, domain.SourceEbay, merged.Source)
	assert.Equal(t, "snes", merged.Platform)
	assert.Equal(t, "rpg", merged.Genre)
	assert.Equal(t, "https://images.example.com/chrono.jpg", merged.Image)
}

func TestCombinePreferDetailKeepsLaterValues(t *testing.T) {
	t.Parallel()

	earlier := listing("c1", "Chrono Trigger", domain.SourceCatalog)
	earlier.Platform = "snes"

	later := listing("e1", "chrono trigger", domain.SourceEbay)
	later.Platform = "ds"
	later.Image = "https://images.example.com/chrono-ds.jpg"

	got := Combine(domain.MergePreferDetail, []domain.Listing{earlier}, []domain.Listing{later})
	require.Len(t, got, 1)
	assert.Equal(t, "ds", got[0].Platform)
	assert.Equal(t, "https://images.example.com/chrono-ds.jpg", got[0].Image)
}

func TestCombineIdempotent(t *testing.T) {
	t.Parallel()

	a := []domain.Listing{
		listing("e1", "Chrono Trigger", domain.SourceEbay),
		listing("j1", "Super Metroid", domain.SourceJJGames),
	}
	b := []domain.Listing{
		listing("v1", "chrono trigger", domain.SourceVGNY),
	}

	once := Combine(domain.MergeLastWins, a, b)
	twice := Combine(domain.MergeLastWins, once)
	assert.Equal(t, once, twice)
}

func TestCombineEmptyGroups(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Combine(domain.MergeLastWins))
	assert.Empty(t, Combine(domain.MergeLastWins, nil, []domain.Listing{}))
}

func titles(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.Title
	}
	return out
}
