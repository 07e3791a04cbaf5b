// Package main is the entry point for the items CLI client.
package main

import (
	"github.com/donaldgifford/marketplace/cmd/items/cmd"
)

func main() {
	cmd.Execute()
}
