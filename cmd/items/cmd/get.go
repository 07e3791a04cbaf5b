package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show item details",
		Example: `  items get 6f1c7b44-0c43-4c4b-9f51-2b3c1b5e9a10
  items get 6f1c7b44-0c43-4c4b-9f51-2b3c1b5e9a10 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			l, err := findListing(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if a.json {
				return outputJSON(a.out, l)
			}
			return printListingDetail(a.out, &l)
		},
	}
}

func shareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Print an item as shareable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			l, err := findListing(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, l.ShareText())
			return err
		},
	}
}

// findListing fetches the full set and returns the item with id.
func findListing(ctx context.Context, a *app, id string) (domain.Listing, error) {
	b := a.board()
	if err := b.Refresh(ctx); err != nil {
		return domain.Listing{}, err
	}
	l, ok := b.Find(id)
	if !ok {
		return domain.Listing{}, fmt.Errorf("item %s not found", id)
	}
	return l, nil
}
