// Package main is the entry point for the scout CLI client.
package main

import (
	"github.com/lootscout/lootscout/cmd/scout/cmd"
)

func main() {
	cmd.Execute()
}
