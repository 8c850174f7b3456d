package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/app"
	"github.com/vmunix/marquee/internal/costar"
)

var connectionsCmd = &cobra.Command{
	Use:   "connections <actor-id>",
	Short: "Show the actors most often cast alongside an actor",
	Long: `Build the co-star graph for an actor from their most popular movies.

Layouts size the graph for a display: mobile (5 co-stars), tablet (6)
or desktop (8).

Examples:
  marquee connections 6384
  marquee connections 6384 --layout mobile`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runConnections),
}

func init() {
	rootCmd.AddCommand(connectionsCmd)
	connectionsCmd.Flags().String("layout", "", "Graph layout: mobile, tablet or desktop")
}

func runConnections(cmd *cobra.Command, args []string, a *app.App) error {
	id, err := parseID(args[0], "actor")
	if err != nil {
		return err
	}
	layout, _ := cmd.Flags().GetString("layout")

	g, err := a.Connections(cmd.Context(), id, layout)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), g)
	}
	printConnections(cmd.OutOrStdout(), g)
	return nil
}

func printConnections(w io.Writer, g *costar.Graph) {
	if g.Empty() {
		fmt.Fprintln(w, "No connections found.")
		return
	}

	fmt.Fprintf(w, "Co-stars of %s\n\n", g.Subject.Label)
	for _, cs := range g.CoStars {
		fmt.Fprintf(w, "  %-28s %s\n", cs.Name, costar.EdgeLabel(cs))
		if len(cs.Collections) > 0 {
			fmt.Fprintf(w, "  %-28s in %s\n", "", strings.Join(cs.Collections, ", "))
		}
	}
}
