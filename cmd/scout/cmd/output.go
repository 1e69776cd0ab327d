package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printListingsTable(listings []domain.Listing) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tTITLE\tPRICE\tCONDITION\tSOURCE\tLISTED\n")
	for i := range listings {
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			listings[i].ID,
			truncate(listings[i].Title, 44),
			listings[i].Price,
			listings[i].Condition,
			listings[i].Source,
			listings[i].Time,
		)
	}
	return tw.finish()
}

func printFavoritesTable(favorites []domain.Favorite) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("PRODUCT\tTITLE\tPRICE\tSOURCE\tSAVED\n")
	for i := range favorites {
		f := &favorites[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\n",
			f.ProductID,
			truncate(f.Listing.Title, 44),
			f.Listing.Price,
			f.Listing.Source,
			f.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func printTrendingTable(entries []domain.TrendingEntry) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("TITLE\tPRICE\tSOURCE\tRANKED BY\n")
	for i := range entries {
		e := &entries[i]
		rankedBy := "curated"
		if !e.Manual {
			rankedBy = fmt.Sprintf("%d favorites", e.FavoriteCount)
		}
		tw.writef("%s\t%s\t%s\t%s\n",
			truncate(e.Listing.Title, 44),
			e.Listing.Price,
			e.Listing.Source,
			rankedBy,
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
