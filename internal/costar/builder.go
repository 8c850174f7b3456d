// Package costar builds an actor's recurring-collaborator graph from the
// cast lists of their most popular movies.
package costar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/marquee/internal/collections"
	"github.com/vmunix/marquee/internal/tmdb"
)

//go:generate mockgen -destination=mocks/fetcher.go -package=mocks . Fetcher

var (
	// ErrNoCredits is returned when the actor has no movie credits.
	ErrNoCredits = errors.New("actor has no movie credits")

	// ErrUnknownLayout is returned for an unrecognized layout preset name.
	ErrUnknownLayout = errors.New("unknown layout")
)

// Fetcher retrieves the TMDB data the builder needs.
type Fetcher interface {
	GetPerson(ctx context.Context, personID int64) (*tmdb.Person, error)
	GetPersonMovieCredits(ctx context.Context, personID int64) (*tmdb.PersonCredits, error)
	GetMovieCredits(ctx context.Context, movieID int64) (*tmdb.Credits, error)
}

// Params tunes a build.
type Params struct {
	SampleSize int `json:"sampleSize"` // most popular movies examined
	CastDepth  int `json:"castDepth"`  // top-billed cast considered per movie
	MinShared  int `json:"minShared"`  // shared movies needed to qualify
	Limit      int `json:"limit"`      // co-stars returned
}

// DefaultParams returns the desktop-sized defaults.
func DefaultParams() Params {
	return Params{SampleSize: 50, CastDepth: 5, MinShared: 2, Limit: 8}
}

var layouts = map[string]struct{ limit, depth int }{
	"mobile":  {5, 3},
	"tablet":  {6, 4},
	"desktop": {8, 5},
}

// Layout returns p with the limit and cast depth of a named preset
// (mobile, tablet or desktop).
func (p Params) Layout(name string) (Params, error) {
	l, ok := layouts[strings.ToLower(name)]
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	p.Limit = l.limit
	p.CastDepth = l.depth
	return p, nil
}

// Builder computes co-star graphs.
type Builder struct {
	fetcher Fetcher
	index   *collections.Index
	params  Params
	log     *slog.Logger
}

// NewBuilder creates a builder. index may be nil, in which case co-stars
// are not annotated with collections.
func NewBuilder(f Fetcher, index *collections.Index, p Params, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		fetcher: f,
		index:   index,
		params:  p,
		log:     log.With("component", "costar"),
	}
}

// Params returns the builder's parameters.
func (b *Builder) Params() Params {
	return b.params
}

// WithParams returns a copy of b using p.
func (b *Builder) WithParams(p Params) *Builder {
	cp := *b
	cp.params = p
	return &cp
}

type tally struct {
	id     int64
	count  int
	movies []MovieRef
}

// Build computes the co-star graph for actorID. Any fetch failure aborts
// the build; no partial graph is returned.
func (b *Builder) Build(ctx context.Context, actorID int64) (*Graph, error) {
	p := b.params

	var (
		person  *tmdb.Person
		credits *tmdb.PersonCredits
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		person, err = b.fetcher.GetPerson(gctx, actorID)
		if err != nil {
			return fmt.Errorf("get person %d: %w", actorID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		credits, err = b.fetcher.GetPersonMovieCredits(gctx, actorID)
		if err != nil {
			return fmt.Errorf("get movie credits for %d: %w", actorID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if credits == nil || len(credits.Cast) == 0 {
		return nil, ErrNoCredits
	}

	movies := sample(credits.Cast, p.SampleSize)

	// One request per movie, all in flight together. Results stay aligned
	// with movies by index.
	casts := make([]*tmdb.Credits, len(movies))
	g, gctx = errgroup.WithContext(ctx)
	for i, m := range movies {
		g.Go(func() error {
			c, err := b.fetcher.GetMovieCredits(gctx, m.ID)
			if err != nil {
				return fmt.Errorf("get cast for movie %d: %w", m.ID, err)
			}
			casts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tallies := make(map[int64]*tally)
	for i, c := range casts {
		if c == nil {
			continue
		}
		top := c.Cast
		if len(top) > p.CastDepth {
			top = top[:p.CastDepth]
		}
		for _, member := range top {
			if member.ID == 0 || member.ID == actorID {
				continue
			}
			t, ok := tallies[member.ID]
			if !ok {
				t = &tally{id: member.ID}
				tallies[member.ID] = t
			}
			t.count++
			t.movies = append(t.movies, MovieRef{ID: movies[i].ID, Title: movies[i].Title})
		}
	}

	ranked := make([]*tally, 0, len(tallies))
	for _, t := range tallies {
		if t.count >= p.MinShared {
			ranked = append(ranked, t)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].id < ranked[j].id
	})
	if p.Limit > 0 && len(ranked) > p.Limit {
		ranked = ranked[:p.Limit]
	}

	coStars := make([]CoStar, 0, len(ranked))
	for _, t := range ranked {
		coStars = append(coStars, b.coStar(t, casts))
	}

	b.log.Debug("built co-star graph",
		"actor_id", actorID,
		"sampled", len(movies),
		"candidates", len(tallies),
		"co_stars", len(coStars))

	return newGraph(actorID, person, coStars), nil
}

// sample returns the n most popular distinct movies.
func sample(cast []tmdb.MovieCredit, n int) []tmdb.MovieCredit {
	seen := make(map[int64]bool, len(cast))
	movies := make([]tmdb.MovieCredit, 0, len(cast))
	for _, m := range cast {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		movies = append(movies, m)
	}
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].Popularity > movies[j].Popularity
	})
	if n > 0 && len(movies) > n {
		movies = movies[:n]
	}
	return movies
}

// coStar resolves the display fields for t by scanning every fetched cast,
// not only the top-billed slice. A co-star never seen with a name gets a
// placeholder.
func (b *Builder) coStar(t *tally, casts []*tmdb.Credits) CoStar {
	cs := CoStar{
		ID:               t.id,
		Name:             "Unknown Actor (" + strconv.FormatInt(t.id, 10) + ")",
		SharedMovieCount: t.count,
		Movies:           t.movies,
	}
	for _, m := range t.movies {
		cs.SharedMovieTitles = append(cs.SharedMovieTitles, m.Title)
	}

find:
	for _, c := range casts {
		if c == nil {
			continue
		}
		for _, member := range c.Cast {
			if member.ID == t.id && member.Name != "" {
				cs.Name = member.Name
				cs.ProfilePath = member.ProfilePath
				break find
			}
		}
	}

	if b.index != nil {
		seen := make(map[string]bool)
		for _, m := range t.movies {
			ref, ok := b.index.Lookup(m.ID)
			if !ok || seen[ref.CollectionName] {
				continue
			}
			seen[ref.CollectionName] = true
			cs.Collections = append(cs.Collections, ref.CollectionName)
		}
	}
	return cs
}
