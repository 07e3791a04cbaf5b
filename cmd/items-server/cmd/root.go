// Package cmd implements the CLI commands for items-server.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/marketplace/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "items-server",
	Short: "Serve the classified listings API",
	Long: "items-server stores classified listings and serves them over the\n" +
		"items HTTP API used by the items CLI. Without a config file it runs\n" +
		"with an in-memory store.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: built-in in-memory configuration)")

	rootCmd.AddCommand(serveCmd, migrateCmd, versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
