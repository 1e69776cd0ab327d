package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func trendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "Show the current trending set",
		Long: "Shows the server's trending snapshot: manually curated entries first,\n" +
			"then the most favorited products of the recent window.",
		Example: `  scout trending
  scout trending --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			res, err := c.Trending(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			if len(res.Entries) == 0 {
				fmt.Println("Nothing trending yet.")
				return nil
			}
			return printTrendingTable(res.Entries)
		},
	}
}
