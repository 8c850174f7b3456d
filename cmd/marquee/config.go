package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without contacting TMDB.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigCheck,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Long: `Writes the commented example config to path (default: the XDG config location).

With --from-current, the config selected by --config or discovery is loaded,
validated and written to path with environment references and defaults
expanded.`,
	Args: cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configInitCmd.Flags().Bool("from-current", false, "Write the resolved current config instead of the example")
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		var err error
		if path, err = resolveConfigPath(); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(w, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(w, cfg)
	fmt.Fprintln(w, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  TMDB:        %s (cache %s)\n", cfg.TMDB.BaseURL, cfg.TMDB.CacheTTL)
	if cfg.OMDB.APIKey != "" {
		fmt.Fprintf(w, "  OMDb:        %s (cache %s)\n", cfg.OMDB.BaseURL, cfg.OMDB.CacheTTL)
	} else {
		fmt.Fprintln(w, "  OMDb:        disabled (no api_key)")
	}

	quota := "unlimited"
	if cfg.Storage.QuotaBytes > 0 {
		quota = fmt.Sprintf("%d bytes", cfg.Storage.QuotaBytes)
	}
	fmt.Fprintf(w, "  Storage:     %s (quota %s)\n", cfg.Storage.Path, quota)
	fmt.Fprintf(w, "  Actors:      %d records, stale after %s\n", cfg.Actors.Capacity, cfg.Actors.StaleAfter)
	fmt.Fprintf(w, "  Collections: %d records, stale after %s\n", cfg.Collections.Capacity, cfg.Collections.StaleAfter)
	if cfg.Collections.Dataset != "" {
		fmt.Fprintf(w, "  Dataset:     %s\n", cfg.Collections.Dataset)
	}

	layout := cfg.CoStar.Layout
	if layout == "" {
		layout = fmt.Sprintf("limit %d, depth %d", cfg.CoStar.Limit, cfg.CoStar.CastDepth)
	}
	fmt.Fprintf(w, "  Co-stars:    %s, sample %d\n", layout, cfg.CoStar.SampleSize)
	fmt.Fprintf(w, "  Maintenance: every %s (log: %s)\n", cfg.Maintenance.Interval, cfg.Log.Level)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	fromCurrent, _ := cmd.Flags().GetBool("from-current")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	w := cmd.OutOrStdout()
	if fromCurrent {
		src, err := resolveConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(src)
		if err != nil {
			return err
		}
		if err := cfg.Write(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(w, "Wrote %s (resolved from %s)\n", path, src)
		return nil
	}

	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(w, "Wrote %s\nSet TMDB_API_KEY (and optionally OMDB_API_KEY) before running marquee.\n", path)
	return nil
}
