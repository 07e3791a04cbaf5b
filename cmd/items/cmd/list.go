package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

type listOptions struct {
	search string
	nearMe bool
}

func listCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, most recent first",
		Long: "List every item, most recent first. --near-me keeps items whose city\n" +
			"contains the current city (--city); when the city is unknown every item\n" +
			"is kept. --search then keeps items whose title contains the text.\n" +
			"Both comparisons ignore case.",
		Example: `  items list
  items list --search bike
  items list --near-me --city "Tel Aviv" --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return runList(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "keep items whose title contains this text")
	cmd.Flags().BoolVar(&opts.nearMe, "near-me", false, "keep items in the current city")

	return cmd
}

func runList(ctx context.Context, a *app, opts listOptions) error {
	b := a.board()
	if err := b.Refresh(ctx); err != nil {
		return err
	}
	b.SetSearchText(opts.search)
	b.SetLocationFilter(ctx, opts.nearMe)

	if opts.nearMe {
		if _, ok := b.CurrentCity(); !ok {
			a.log.Warn("current city unknown, showing all items")
		}
	}

	return printListings(a.out, a.json, b.Visible())
}

func printListings(w io.Writer, asJSON bool, listings []domain.Listing) error {
	if asJSON {
		return outputJSON(w, listings)
	}
	if len(listings) == 0 {
		_, err := fmt.Fprintln(w, "No items found.")
		return err
	}
	return printListingsTable(w, listings)
}
