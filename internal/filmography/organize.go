// Package filmography shapes a person's credits for display: collection
// grouping and career rating scores.
package filmography

import (
	"sort"

	"github.com/vmunix/marquee/internal/collections"
	"github.com/vmunix/marquee/internal/tmdb"
)

// MediaTypeCollection marks a grouped entry in a mixed credit listing.
const MediaTypeCollection = "collection"

// CollectionGroup is a collection the person appeared in at least twice.
type CollectionGroup struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	TotalMovies  int                `json:"totalMovies"`
	MovieCount   int                `json:"movieCount"`
	MediaType    string             `json:"media_type"`
	Overview     string             `json:"overview"`
	PosterPath   string             `json:"poster_path"`
	BackdropPath string             `json:"backdrop_path"`
	Popularity   float64            `json:"popularity"`
	VoteAverage  float64            `json:"vote_average"`
	VoteCount    int                `json:"vote_count"`
	Movies       []tmdb.MovieCredit `json:"movies"`
}

// Organized is a filmography split into collection groups and standalone
// movies.
type Organized struct {
	Collections      []CollectionGroup  `json:"collections"`
	IndividualMovies []tmdb.MovieCredit `json:"individualMovies"`
}

// Organize buckets credits by collection. Collections with a single credit
// are folded back into the standalone list. Movies inside a group sort by
// release date ascending; standalone movies sort by release date
// descending. Missing dates compare as the empty string. Groups keep the
// order in which their first credit appeared. A nil index groups nothing.
func Organize(credits []tmdb.MovieCredit, idx *collections.Index) Organized {
	var (
		order   []int64
		buckets = make(map[int64]*CollectionGroup)
		single  []tmdb.MovieCredit
	)

	lookup := func(int64) (collections.MovieRef, bool) { return collections.MovieRef{}, false }
	if idx != nil {
		lookup = idx.Lookup
	}

	for _, credit := range credits {
		ref, ok := lookup(credit.ID)
		if !ok {
			single = append(single, credit)
			continue
		}

		g, ok := buckets[ref.CollectionID]
		if !ok {
			g = &CollectionGroup{
				ID:          ref.CollectionID,
				Name:        ref.CollectionName,
				TotalMovies: ref.MovieCount,
				MediaType:   MediaTypeCollection,
			}
			if c, found := idx.CollectionByID(ref.CollectionID); found {
				g.Overview = c.Overview
				g.PosterPath = c.PosterPath
				g.BackdropPath = c.BackdropPath
				g.Popularity = c.Popularity
				g.VoteAverage = c.VoteAverage
				g.VoteCount = c.VoteCount
			}
			buckets[ref.CollectionID] = g
			order = append(order, ref.CollectionID)
		}
		g.Movies = append(g.Movies, credit)
	}

	out := Organized{Collections: []CollectionGroup{}}
	var demoted []tmdb.MovieCredit
	for _, id := range order {
		g := buckets[id]
		if len(g.Movies) == 1 {
			demoted = append(demoted, g.Movies[0])
			continue
		}
		g.MovieCount = len(g.Movies)
		sort.SliceStable(g.Movies, func(i, j int) bool {
			return g.Movies[i].ReleaseDate < g.Movies[j].ReleaseDate
		})
		out.Collections = append(out.Collections, *g)
	}

	out.IndividualMovies = append(single, demoted...)
	if out.IndividualMovies == nil {
		out.IndividualMovies = []tmdb.MovieCredit{}
	}
	sort.SliceStable(out.IndividualMovies, func(i, j int) bool {
		return out.IndividualMovies[i].ReleaseDate > out.IndividualMovies[j].ReleaseDate
	})
	return out
}
