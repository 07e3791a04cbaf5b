// Package main generates CLI reference documentation from the items command
// tree.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/marketplace/cmd/items/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	if err := generate(*output); err != nil {
		slog.Error("generating docs", "err", err)
		os.Exit(1)
	}
	fmt.Printf("CLI docs generated in %s/\n", *output)
}

func generate(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	return doc.GenMarkdownTree(root, dir)
}
