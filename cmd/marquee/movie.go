package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/app"
	"github.com/vmunix/marquee/internal/format"
)

var movieCmd = &cobra.Command{
	Use:   "movie <id>",
	Short: "Show a movie with its collection and ratings",
	Long: `Show a movie's details, money, collection and third-party ratings.
Ratings need an OMDb API key in the [omdb] config section.

Examples:
  marquee movie 603`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runMovie),
}

func init() {
	rootCmd.AddCommand(movieCmd)
}

func runMovie(cmd *cobra.Command, args []string, a *app.App) error {
	id, err := parseID(args[0], "movie")
	if err != nil {
		return err
	}
	m, err := a.Movie(cmd.Context(), id)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), m)
	}
	printMovie(cmd.OutOrStdout(), m)
	return nil
}

func printMovie(w io.Writer, detail *app.Movie) {
	m := detail.Movie
	fmt.Fprintf(w, "%s (%s)\n", m.Title, format.ReleaseYear(m.ReleaseDate))
	if m.Tagline != "" {
		fmt.Fprintf(w, "  %q\n", m.Tagline)
	}

	fmt.Fprintf(w, "  Released:   %s\n", orDash(m.ReleaseDate))
	if m.Runtime > 0 {
		fmt.Fprintf(w, "  Runtime:    %dh %02dm\n", m.Runtime/60, m.Runtime%60)
	}
	if len(m.Genres) > 0 {
		names := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			names = append(names, g.Name)
		}
		fmt.Fprintf(w, "  Genres:     %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "  Budget:     %s\n", format.Currency(m.Budget))
	fmt.Fprintf(w, "  Revenue:    %s\n", format.Currency(m.Revenue))
	fmt.Fprintf(w, "  TMDB:       %.1f (%d votes)\n", m.VoteAverage, m.VoteCount)

	if r := detail.Ratings; r != nil {
		if r.IMDBRating != "" {
			fmt.Fprintf(w, "  IMDb:       %s\n", r.IMDBRating)
		}
		for _, rt := range r.Ratings {
			if rt.Source == "Internet Movie Database" {
				continue
			}
			fmt.Fprintf(w, "  %-11s %s\n", rt.Source+":", rt.Value)
		}
	}

	if c := detail.Collection; c != nil {
		fmt.Fprintf(w, "  Collection: %s (%d movies)\n", c.Name, len(c.Parts))
	}
	if m.Overview != "" {
		fmt.Fprintf(w, "\n%s\n", m.Overview)
	}
}
