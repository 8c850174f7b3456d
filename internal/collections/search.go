package collections

import (
	"sort"

	"github.com/vmunix/marquee/internal/tmdb"
	"github.com/vmunix/marquee/internal/titles"
)

// minSearchScore is the lowest similarity reported as a match.
const minSearchScore = 0.70

// Match is a collection search hit.
type Match struct {
	Collection tmdb.Collection `json:"collection"`
	Score      float64         `json:"score"`
}

// Search returns collections whose name resembles query, best first.
// A limit <= 0 returns every match.
func (x *Index) Search(query string, limit int) []Match {
	x.ensureBuilt()

	var matches []Match
	for _, c := range x.byID {
		score := titles.Similarity(query, c.Name)
		if score >= minSearchScore {
			matches = append(matches, Match{Collection: c, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Collection.ID < matches[j].Collection.ID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
