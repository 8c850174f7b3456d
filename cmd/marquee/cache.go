package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/app"
	"github.com/vmunix/marquee/internal/format"
	"github.com/vmunix/marquee/internal/maintenance"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local record stores",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts, refresh state and storage usage",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCacheStats),
}

var cacheMaintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Drop stale records and run any due bulk refresh",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCacheMaintain),
}

var cacheRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Bulk refresh both stores now",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCacheRefresh),
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached record",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCacheClear),
}

var cacheWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run maintenance periodically until interrupted",
	Long: `Run maintenance on both stores immediately and then every
[maintenance] interval until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: withApp(runCacheWatch),
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheMaintainCmd)
	cacheCmd.AddCommand(cacheRefreshCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheWatchCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string, a *app.App) error {
	st, err := a.CacheStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("cache stats: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), st)
	}
	printStats(cmd.OutOrStdout(), st)
	return nil
}

func printStats(w io.Writer, st *app.Stats) {
	fmt.Fprintln(w, "Record stores:")
	for _, s := range st.Stores {
		last := "never"
		if s.LastBulkUpdate != nil {
			last = format.Ago(*s.LastBulkUpdate)
		}
		due := ""
		if s.NeedsBulkUpdate {
			due = " (refresh due)"
		}
		fmt.Fprintf(w, "  %-12s %d/%d records, last refresh %s%s\n", s.Name, s.Records, s.Capacity, last, due)
	}

	fmt.Fprintln(w, "\nStorage:")
	if st.Persistent {
		fmt.Fprintf(w, "  sqlite       %s in %d keys\n", format.Bytes(st.StorageBytes), st.StorageItems)
	} else {
		fmt.Fprintf(w, "  memory       %s\n", format.Bytes(st.StorageBytes))
	}

	fmt.Fprintf(w, "\nBundled collections: %d", st.DatasetCollections)
	if st.DatasetSkipped > 0 {
		fmt.Fprintf(w, " (%d invalid entries skipped)", st.DatasetSkipped)
	}
	fmt.Fprintln(w)
}

func runCacheMaintain(cmd *cobra.Command, _ []string, a *app.App) error {
	return printResults(cmd.OutOrStdout(), a.Maintain(cmd.Context()))
}

func runCacheRefresh(cmd *cobra.Command, _ []string, a *app.App) error {
	return printResults(cmd.OutOrStdout(), a.Refresh(cmd.Context()))
}

func printResults(w io.Writer, results []maintenance.Result) error {
	if jsonOutput {
		return printJSON(w, results)
	}
	for _, r := range results {
		line := fmt.Sprintf("  %-12s removed %d stale", r.Store, r.Removed)
		if r.Refreshed {
			line += fmt.Sprintf(", refreshed (+%d)", r.Added)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string, a *app.App) error {
	a.Clear(cmd.Context())
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]bool{"cleared": true})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
	return nil
}

func runCacheWatch(cmd *cobra.Command, _ []string, a *app.App) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Maintaining every %s, press Ctrl-C to stop.\n", a.Config().Maintenance.Interval)
	err := a.Runner().Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
