package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/app"
	"github.com/vmunix/marquee/internal/format"
)

var actorCmd = &cobra.Command{
	Use:   "actor <id>",
	Short: "Show an actor's details",
	Long: `Show an actor's details, age, nationality and career scores.

Examples:
  marquee actor 6384          # Keanu Reeves
  marquee actor 6384 --json`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runActor),
}

var filmographyCmd = &cobra.Command{
	Use:   "filmography <actor-id>",
	Short: "List an actor's movies grouped by collection",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runFilmography),
}

func init() {
	rootCmd.AddCommand(actorCmd)
	rootCmd.AddCommand(filmographyCmd)
}

func runActor(cmd *cobra.Command, args []string, a *app.App) error {
	id, err := parseID(args[0], "actor")
	if err != nil {
		return err
	}
	actor, err := a.Actor(cmd.Context(), id)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), actor)
	}
	printActor(cmd.OutOrStdout(), actor)
	return nil
}

func printActor(w io.Writer, actor *app.Actor) {
	p := actor.Person
	fmt.Fprintf(w, "%s (%d)\n", p.Name, p.ID)

	born := orDash(p.Birthday)
	if p.PlaceOfBirth != "" {
		born += " in " + p.PlaceOfBirth
	}
	switch {
	case actor.Deceased:
		fmt.Fprintf(w, "  Born:        %s\n", born)
		fmt.Fprintf(w, "  Died:        %s (aged %d)\n", p.Deathday, actor.Age)
	case actor.Age > 0:
		fmt.Fprintf(w, "  Born:        %s (age %d)\n", born, actor.Age)
	default:
		fmt.Fprintf(w, "  Born:        %s\n", born)
	}

	if actor.Nationality != "" {
		nat := actor.Nationality
		if actor.CountryCode != "" {
			nat += " (" + actor.CountryCode + ")"
		}
		fmt.Fprintf(w, "  Nationality: %s\n", nat)
	}
	fmt.Fprintf(w, "  Known for:   %s\n", orDash(p.KnownForDepartment))
	fmt.Fprintf(w, "  Scores:      movies %s, tv %s\n", score(actor.Scores.Movie), score(actor.Scores.TV))
	if p.ProfilePath != "" {
		fmt.Fprintf(w, "  Profile:     %s\n", p.ProfileURL("w185"))
	}
	if bio := strings.TrimSpace(p.Biography); bio != "" {
		fmt.Fprintf(w, "\n%s\n", bio)
	}
}

func runFilmography(cmd *cobra.Command, args []string, a *app.App) error {
	id, err := parseID(args[0], "actor")
	if err != nil {
		return err
	}
	f, err := a.Filmography(cmd.Context(), id)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), f)
	}
	printFilmography(cmd.OutOrStdout(), f)
	return nil
}

func printFilmography(w io.Writer, f *app.Filmography) {
	fmt.Fprintf(w, "Filmography of %s\n", f.Name)

	if len(f.Collections) > 0 {
		fmt.Fprintln(w, "\nCollections:")
		for _, g := range f.Collections {
			fmt.Fprintf(w, "  %s (%d of %d)\n", g.Name, g.MovieCount, g.TotalMovies)
			for _, m := range g.Movies {
				fmt.Fprintf(w, "    %s\n", creditLine(f.Birthday, m.ReleaseDate, m.Title, m.Character))
			}
		}
	}

	if len(f.IndividualMovies) > 0 {
		fmt.Fprintln(w, "\nMovies:")
		for _, m := range f.IndividualMovies {
			fmt.Fprintf(w, "  %s\n", creditLine(f.Birthday, m.ReleaseDate, m.Title, m.Character))
		}
	}

	if len(f.Collections) == 0 && len(f.IndividualMovies) == 0 {
		fmt.Fprintln(w, "No movie credits.")
	}
}

func creditLine(birthday, release, title, character string) string {
	line := fmt.Sprintf("%-7s  %s", format.ReleaseYear(release), title)
	if character != "" {
		line += " as " + character
	}
	if age, ok := format.AgeAtFilming(birthday, release); ok {
		line += fmt.Sprintf(" (age %d)", age)
	}
	return line
}
