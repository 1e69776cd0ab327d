// Package cmd implements the CLI commands for the lootscout server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lootscout",
	Short: "Aggregate retro game listings from multiple marketplaces",
	Long:  "An API-first service that aggregates retro video game listings from eBay, specialty storefronts and a curated catalog, deduplicates them by title, and serves search, favorites and trending endpoints.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
