package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// draftFlags are the editable fields shared by add and update.
type draftFlags struct {
	title       string
	description string
	location    string
	city        string
	phone       string
	place       string
}

func (f *draftFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "item title")
	fs.StringVar(&f.description, "description", "", "item description (at most 200 characters; longer text is cut)")
	fs.StringVar(&f.location, "location", "", "human-readable address")
	fs.StringVar(&f.city, "city-name", "", "city of the address")
	fs.StringVar(&f.phone, "phone", "", "contact phone number")
	fs.StringVar(&f.place, "place", "", "look the address up in the configured places instead of --location/--city-name")
}

// apply copies the flags that were set onto d, resolving --place last.
func (f *draftFlags) apply(ctx context.Context, a *app, fs *pflag.FlagSet, d *domain.Draft) error {
	set := map[string]*string{
		"title":       &d.Title,
		"description": &d.Description,
		"location":    &d.Location,
		"city-name":   &d.City,
		"phone":       &d.PhoneNumber,
	}
	values := map[string]string{
		"title":       f.title,
		"description": f.description,
		"location":    f.location,
		"city-name":   f.city,
		"phone":       f.phone,
	}
	for name, dst := range set {
		if fs.Changed(name) {
			*dst = values[name]
		}
	}

	if f.place == "" {
		return nil
	}
	candidates, err := a.resolver.Resolve(ctx, f.place)
	if err != nil {
		return fmt.Errorf("resolving place: %w", err)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no configured place matches %q", f.place)
	}
	sel := candidates[0].Select()
	d.Location, d.City = sel.Location, sel.City
	return nil
}

func addCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Publish a new item",
		Long: "Publish a new item owned by the signed-in user. Title, description,\n" +
			"location, city and phone are all required.",
		Example: `  items add --title Bike --description "Road bike" --place dizengoff --phone 0501234567
  items add --title Sofa --description "Grey, 3 seats" --location "Herzl 1" --city-name Haifa --phone 050`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			var d domain.Draft
			if err := flags.apply(cmd.Context(), a, cmd.Flags(), &d); err != nil {
				return err
			}
			return runAdd(cmd.Context(), a, d)
		},
	}
	flags.register(cmd.Flags())

	return cmd
}

func runAdd(ctx context.Context, a *app, d domain.Draft) error {
	l, err := a.editor().Add(ctx, d)
	if err != nil {
		return userError(err)
	}
	if a.json {
		return outputJSON(a.out, l)
	}
	_, err = fmt.Fprintf(a.out, "Published item %s.\n", l.ID)
	return err
}

func updateCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit one of your items",
		Long:  "Edit the fields given by flags. The id and publication date never change.",
		Example: `  items update 6f1c7b44-0c43-4c4b-9f51-2b3c1b5e9a10 --title "Mountain bike"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			existing, err := findListing(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			d := existing.Draft()
			if err := flags.apply(cmd.Context(), a, cmd.Flags(), &d); err != nil {
				return err
			}
			return runUpdate(cmd.Context(), a, &existing, d)
		},
	}
	flags.register(cmd.Flags())

	return cmd
}

func runUpdate(ctx context.Context, a *app, existing *domain.Listing, d domain.Draft) error {
	l, err := a.editor().Update(ctx, existing, d)
	if err != nil {
		return userError(err)
	}
	if a.json {
		return outputJSON(a.out, l)
	}
	_, err = fmt.Fprintf(a.out, "Updated item %s.\n", l.ID)
	return err
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove one of your items",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			l, err := findListing(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			return runRemove(cmd.Context(), a, &l)
		},
	}
}

func runRemove(ctx context.Context, a *app, l *domain.Listing) error {
	if err := a.editor().Remove(ctx, l); err != nil {
		return userError(err)
	}
	_, err := fmt.Fprintf(a.out, "Removed item %s.\n", l.ID)
	return err
}
