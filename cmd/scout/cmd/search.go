package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/lootscout/lootscout/internal/api/client"
)

func searchCmd() *cobra.Command {
	var (
		platforms []string
		genres    []string
		prices    []string
		sources   []string
		sortOrder string
		merge     string
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search retro game listings across sources",
		Long: "Sends a search to the API server, which fans the query out to every\n" +
			"configured source, deduplicates by title, and applies filters and\n" +
			"sorting. With no query the server returns the curated catalog.",
		Example: `  scout search "chrono trigger"
  scout search "earthbound" --platform snes --price under-25
  scout search zelda --sort price-asc --limit 30
  scout search trending`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			c := newClient()
			res, err := c.Search(context.Background(), &apiclient.SearchParams{
				Query:     query,
				Platforms: platforms,
				Genres:    genres,
				Prices:    prices,
				Sources:   sources,
				Sort:      sortOrder,
				Merge:     merge,
				Limit:     limit,
				Offset:    offset,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			if len(res.Listings) == 0 {
				fmt.Println("No listings found.")
				return nil
			}
			if err := printListingsTable(res.Listings); err != nil {
				return err
			}
			fmt.Printf("\nShowing %d of %d listings.\n", len(res.Listings), res.Total)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "platform filter (repeatable)")
	cmd.Flags().StringSliceVar(&genres, "genre", nil, "genre filter (repeatable)")
	cmd.Flags().
		StringSliceVar(&prices, "price", nil, "price bracket: under-25, under-50, under-100, over-100")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "source filter (repeatable)")
	cmd.Flags().StringVar(&sortOrder, "sort", "", "sort order: price-asc, price-desc, recency")
	cmd.Flags().StringVar(&merge, "merge", "", "merge policy: last-wins, first-wins, prefer-detail")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset for paging")

	return cmd
}

func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured listing sources",
		Example: `  scout sources
  scout sources --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			res, err := c.Sources(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			for _, s := range res.Sources {
				fmt.Println(s)
			}
			return nil
		},
	}
}

func cacheCmd() *cobra.Command {
	cacheRoot := &cobra.Command{
		Use:   "cache",
		Short: "Manage the server result cache",
	}

	cacheRoot.AddCommand(&cobra.Command{
		Use:     "clear",
		Short:   "Drop all cached provider results",
		Example: `  scout cache clear`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			res, err := c.ClearCache(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			fmt.Printf("Cache cleared (%d entries dropped).\n", res.Dropped)
			return nil
		},
	})

	return cacheRoot
}
