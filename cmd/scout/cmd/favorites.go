package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	domain "github.com/lootscout/lootscout/pkg/types"
)

func favoritesCmd() *cobra.Command {
	favRoot := &cobra.Command{
		Use:   "favorites",
		Short: "Manage saved listings",
		Long: "Manage a user's saved listings. A favorite stores a snapshot of the\n" +
			"listing at save time, so it survives the source delisting it.",
	}

	favRoot.PersistentFlags().String("user", "", "user ID (required)")
	cobra.CheckErr(favRoot.MarkPersistentFlagRequired("user"))

	favRoot.AddCommand(
		favoritesListCmd(),
		favoritesAddCmd(),
		favoritesRemoveCmd(),
	)

	return favRoot
}

func favoritesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved listings, newest first",
		Example: `  scout favorites list --user alice
  scout favorites list --user alice --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, _ := cmd.Flags().GetString("user")
			c := newClient()
			res, err := c.ListFavorites(context.Background(), user)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			if len(res.Favorites) == 0 {
				fmt.Println("No favorites saved.")
				return nil
			}
			return printFavoritesTable(res.Favorites)
		},
	}
}

func favoritesAddCmd() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a listing from a JSON snapshot",
		Long: "Save a listing for a user. The listing snapshot is read as JSON from\n" +
			"--file, or from stdin when --file is \"-\". Saving an already saved\n" +
			"product refreshes its snapshot.",
		Example: `  scout search "chrono trigger" --output json | jq '.listings[0]' | scout favorites add --user alice --file -
  scout favorites add --user alice --file listing.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, _ := cmd.Flags().GetString("user")

			listing, err := readListing(fromFile)
			if err != nil {
				return err
			}

			c := newClient()
			fav, err := c.AddFavorite(context.Background(), user, *listing)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(fav)
			}
			fmt.Printf("Saved %q (%s).\n", fav.Listing.Title, fav.ProductID)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromFile, "file", "-", "listing JSON file, or - for stdin")

	return cmd
}

func favoritesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <product-id>",
		Short:   "Remove a saved listing",
		Example: `  scout favorites remove ebay-123456 --user alice`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			c := newClient()
			if err := c.RemoveFavorite(context.Background(), user, args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s.\n", args[0])
			return nil
		},
	}
}

func readListing(path string) (*domain.Listing, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // path from CLI flag
	}
	if err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}

	var l domain.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing listing JSON: %w", err)
	}
	if l.ID == "" {
		return nil, fmt.Errorf("listing is missing an id")
	}
	return &l, nil
}

func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}
