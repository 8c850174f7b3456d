package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
	logLevel   string
	ephemeral  bool
)

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Actor, movie and collection lookups over TMDB",
	Long: `marquee - actor, movie and collection lookups over TMDB

Looks up actors, their filmographies and co-star networks, movies and
movie collections. Responses are cached in memory and records are kept
in a local SQLite store between runs.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the record stores in memory only")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("marquee {{.Version}}\n")
}
