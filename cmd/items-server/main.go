// Package main is the entry point for the items listing service.
package main

import (
	"os"

	"github.com/donaldgifford/marketplace/cmd/items-server/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
