package filmography

import (
	"slices"

	"github.com/vmunix/marquee/internal/tmdb"
	"github.com/vmunix/marquee/internal/titles"
)

// Weighted rating parameters (IMDb Top 250 formula).
const (
	movieMinVotes = 500
	movieMeanVote = 6.8

	tvMinVotes    = 100
	tvMeanVote    = 6.5
	tvMinEpisodes = 8
)

// Billing order weights.
const (
	weightLead       = 1.2 // order 0-2
	weightMajor      = 1.1 // order 3-5
	weightSupporting = 1.0 // order 6-8
	weightMinor      = 0.9 // order 9-12
	weightExtra      = 0.5
)

var (
	// ExcludedMovieGenres are documentary and TV movie.
	ExcludedMovieGenres = []int{99, 10770}
	// ExcludedTVGenres are reality, talk and news.
	ExcludedTVGenres = []int{10764, 10767, 10763}
)

// ExcludedTitlePatterns mark bonus material rather than real works.
var ExcludedTitlePatterns = []string{
	"behind the scenes",
	"making of",
	"special features",
	"greatest hits",
	"extended edition",
	"extended cut",
	"director's cut",
	"recap",
	"bloopers",
	"gag reel",
	"deleted scenes",
	"bonus features",
	"commentary",
	"featurette",
	"documentary",
	"interviews",
	"bts",
	"extras",
	"outtakes",
	"promotional",
	"promo",
	"trailer",
	"teaser",
	"sneak peek",
	"preview",
	"anniversary edition",
	"special edition",
	"collector's edition",
	"unrated",
	"alternate ending",
	"alternate version",
}

// ShouldExcludeTitle reports whether a title is empty or looks like bonus
// material. Matching ignores case and accents.
func ShouldExcludeTitle(title string) bool {
	if title == "" {
		return true
	}
	return titles.ContainsAny(title, ExcludedTitlePatterns)
}

// CreditWeight scales a movie rating by billing order.
func CreditWeight(order int) float64 {
	switch {
	case order <= 2:
		return weightLead
	case order <= 5:
		return weightMajor
	case order <= 8:
		return weightSupporting
	case order <= 12:
		return weightMinor
	default:
		return weightExtra
	}
}

func weightedRating(avg float64, votes int, minVotes, mean float64) float64 {
	if votes == 0 || avg == 0 {
		return 0
	}
	w := float64(votes) / (float64(votes) + minVotes)
	return w*avg + (1-w)*mean
}

func hasGenre(ids, excluded []int) bool {
	for _, id := range ids {
		if slices.Contains(excluded, id) {
			return true
		}
	}
	return false
}

// Scores is a person's career rating on a 0-10 scale. Zero means no
// qualifying credits.
type Scores struct {
	Movie float64 `json:"movie"`
	TV    float64 `json:"tv"`
}

// Score rates a person's English-language movie and TV work, excluding
// bonus material and non-fiction genres. Each credit's weighted rating is
// averaged with its vote count as weight.
func Score(p *tmdb.Person) Scores {
	var s Scores
	if p == nil {
		return s
	}
	if p.MovieCredits != nil {
		s.Movie = MovieScore(p.MovieCredits.Cast)
	}
	if p.TVCredits != nil {
		s.TV = TVScore(p.TVCredits.Cast)
	}
	return s
}

// MovieScore is the movie half of Score.
func MovieScore(credits []tmdb.MovieCredit) float64 {
	var sum, total float64
	for _, m := range credits {
		if m.OriginalLanguage != "en" || ShouldExcludeTitle(m.Title) || hasGenre(m.GenreIDs, ExcludedMovieGenres) {
			continue
		}
		if m.VoteCount <= 0 || m.VoteAverage <= 0 {
			continue
		}
		r := weightedRating(m.VoteAverage, m.VoteCount, movieMinVotes, movieMeanVote) * CreditWeight(m.Order)
		sum += r * float64(m.VoteCount)
		total += float64(m.VoteCount)
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// TVScore is the TV half of Score. Shows need more than eight episodes.
func TVScore(credits []tmdb.TVCredit) float64 {
	var sum, total float64
	for _, show := range credits {
		if show.EpisodeCount <= tvMinEpisodes || show.OriginalLanguage != "en" {
			continue
		}
		if ShouldExcludeTitle(show.Name) || hasGenre(show.GenreIDs, ExcludedTVGenres) {
			continue
		}
		if show.VoteCount <= 0 || show.VoteAverage <= 0 {
			continue
		}
		r := weightedRating(show.VoteAverage, show.VoteCount, tvMinVotes, tvMeanVote)
		sum += r * float64(show.VoteCount)
		total += float64(show.VoteCount)
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
