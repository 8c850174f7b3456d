package costar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmunix/marquee/internal/tmdb"
)

// MovieRef identifies a shared movie.
type MovieRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// CoStar is one recurring collaborator.
type CoStar struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	ProfilePath       string     `json:"profilePath,omitempty"`
	SharedMovieCount  int        `json:"sharedMovieCount"`
	SharedMovieTitles []string   `json:"sharedMovieTitles"`
	Movies            []MovieRef `json:"movies"`
	Collections       []string   `json:"collections,omitempty"`
}

// NodeActor is the type of every person node.
const NodeActor = "actor"

// Node is a graph vertex.
type Node struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	ProfilePath string `json:"profilePath,omitempty"`
}

// Edge links the subject to a co-star.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// Graph is the subject, its co-stars and the edges between them.
type Graph struct {
	Subject Node     `json:"subject"`
	Nodes   []Node   `json:"nodes"`
	Edges   []Edge   `json:"edges"`
	CoStars []CoStar `json:"coStars"`
}

// Empty reports whether the graph has no co-stars.
func (g *Graph) Empty() bool {
	return g == nil || len(g.CoStars) == 0
}

// EdgeLabel formats the shared-movie summary shown on an edge.
func EdgeLabel(cs CoStar) string {
	return fmt.Sprintf("%d shared: %s", cs.SharedMovieCount, strings.Join(cs.SharedMovieTitles, ", "))
}

func newGraph(actorID int64, person *tmdb.Person, coStars []CoStar) *Graph {
	subjectID := strconv.FormatInt(actorID, 10)
	subject := Node{ID: subjectID, Type: NodeActor}
	if person != nil {
		subject.Label = person.Name
		subject.ProfilePath = person.ProfilePath
	}

	g := &Graph{
		Subject: subject,
		Nodes:   []Node{subject},
		Edges:   make([]Edge, 0, len(coStars)),
		CoStars: coStars,
	}
	for _, cs := range coStars {
		id := strconv.FormatInt(cs.ID, 10)
		g.Nodes = append(g.Nodes, Node{ID: id, Label: cs.Name, Type: NodeActor, ProfilePath: cs.ProfilePath})
		g.Edges = append(g.Edges, Edge{
			ID:     "edge_" + subjectID + "_" + id,
			Source: subjectID,
			Target: id,
			Label:  EdgeLabel(cs),
			Weight: cs.SharedMovieCount,
		})
	}
	return g
}
