// Package main is the entry point for the lootscout server.
package main

import (
	"os"

	"github.com/lootscout/lootscout/cmd/lootscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
