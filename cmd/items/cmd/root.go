// Package cmd implements the items CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/marketplace/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "items",
		Short: "Browse and publish classified listings",
		Long: "items is a command-line client for the items listing service.\n" +
			"It lists, searches and filters items by city, and lets a signed-in\n" +
			"user publish, edit and remove their own items.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.items.yaml)")
	flags.String("server", apiclient.DefaultBaseURL, "items service API root URL")
	flags.String("output", "table", "output format (table, json)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("token", "", "ID token of the signed-in user (see 'items login')")
	flags.String("secret", "", "HMAC secret used to verify development ID tokens")
	flags.String("city", "", "current city, used by --near-me")
	flags.String("locale", "", "BCP 47 language tag for case-insensitive matching (default: Unicode case folding)")

	for _, name := range []string{"server", "output", "log-level", "token", "secret", "city", "locale"} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}

	rootCmd.AddCommand(
		listCmd(),
		getCmd(),
		shareCmd(),
		addCmd(),
		updateCmd(),
		removeCmd(),
		loginCmd(),
		whoamiCmd(),
		watchCmd(),
		versionCmd(),
	)
}

func initConfig() {
	// A missing .env is normal; a malformed one is worth a warning.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".items")
	}

	viper.SetEnvPrefix("ITEMS")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
