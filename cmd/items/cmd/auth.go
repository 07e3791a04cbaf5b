package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/marketplace/internal/session"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

func loginCmd() *cobra.Command {
	var (
		email string
		name  string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Mint a development ID token",
		Long: "Mint an HS256 ID token for a development identity, signed with --secret.\n" +
			"Export it as ITEMS_TOKEN (or pass --token) to act as that user.",
		Example: `  export ITEMS_SECRET=dev-secret
  export ITEMS_TOKEN=$(items login --email dana@example.com --name Dana)`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := viper.GetString("secret")
			if secret == "" {
				return errors.New("--secret (or ITEMS_SECRET) is required to sign tokens")
			}
			token, err := session.IssueDevToken(
				domain.Identity{ID: email, DisplayName: name},
				[]byte(secret),
				ttl,
			)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the identity (its unique id)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cobra.CheckErr(cmd.MarkFlagRequired("email"))

	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return runWhoami(a)
		},
	}
}

func runWhoami(a *app) error {
	who, ok := a.sess.Identity()
	if a.json {
		return outputJSON(a.out, map[string]any{"signedIn": ok, "identity": who})
	}
	if !ok {
		_, err := fmt.Fprintln(a.out, "Not signed in.")
		return err
	}
	name := who.DisplayName
	if name == "" {
		name = domain.DefaultUserName
	}
	_, err := fmt.Fprintf(a.out, "%s <%s>\n", name, who.ID)
	return err
}
