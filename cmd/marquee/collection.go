package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/app"
	"github.com/vmunix/marquee/internal/collections"
	"github.com/vmunix/marquee/internal/format"
	"github.com/vmunix/marquee/internal/tmdb"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Movie collection lookups",
}

var collectionShowCmd = &cobra.Command{
	Use:   "show <collection-id>",
	Short: "Show a collection and its movies",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCollectionShow),
}

var collectionFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Search the bundled collections by name",
	Long: `Search the bundled collections by name. Matching ignores case,
accents, punctuation and the word "collection", and tolerates typos.

Examples:
  marquee collection find matrix
  marquee collection find "jon wick"`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(runCollectionFind),
}

var collectionForMovieCmd = &cobra.Command{
	Use:   "for-movie <movie-id>",
	Short: "Show the collection a movie belongs to",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCollectionForMovie),
}

func init() {
	rootCmd.AddCommand(collectionCmd)
	collectionCmd.AddCommand(collectionShowCmd)
	collectionCmd.AddCommand(collectionFindCmd)
	collectionCmd.AddCommand(collectionForMovieCmd)
	collectionFindCmd.Flags().Int("limit", 10, "Maximum results (0 = all)")
}

func runCollectionShow(cmd *cobra.Command, args []string, a *app.App) error {
	id, err := parseID(args[0], "collection")
	if err != nil {
		return err
	}
	c, err := a.Collection(cmd.Context(), id)
	if err != nil {
		return err
	}
	return showCollection(cmd.OutOrStdout(), c)
}

func runCollectionForMovie(cmd *cobra.Command, args []string, a *app.App) error {
	id, err := parseID(args[0], "movie")
	if err != nil {
		return err
	}
	c, err := a.MovieCollection(cmd.Context(), id)
	if err != nil {
		return err
	}
	return showCollection(cmd.OutOrStdout(), c)
}

func showCollection(w io.Writer, c *tmdb.Collection) error {
	if jsonOutput {
		return printJSON(w, c)
	}
	printCollection(w, c)
	return nil
}

func printCollection(w io.Writer, c *tmdb.Collection) {
	fmt.Fprintf(w, "%s (%d)\n", c.Name, c.ID)
	if c.Overview != "" {
		fmt.Fprintf(w, "  %s\n", c.Overview)
	}
	fmt.Fprintf(w, "\n  %d movies:\n", len(c.Parts))
	for _, m := range c.Parts {
		fmt.Fprintf(w, "    %-7s  %s (%d)\n", format.ReleaseYear(m.ReleaseDate), m.Title, m.ID)
	}
}

func runCollectionFind(cmd *cobra.Command, args []string, a *app.App) error {
	limit, _ := cmd.Flags().GetInt("limit")
	matches := a.FindCollection(strings.Join(args, " "), limit)
	if jsonOutput {
		if matches == nil {
			matches = []collections.Match{}
		}
		return printJSON(cmd.OutOrStdout(), matches)
	}
	printMatches(cmd.OutOrStdout(), matches)
	return nil
}

func printMatches(w io.Writer, matches []collections.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No collections found.")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(w, "  %-8d %-40s %3.0f%%\n", m.Collection.ID, m.Collection.Name, m.Score*100)
	}
}
