// Package tmdb provides a client for The Movie Database API.
package tmdb

import "strconv"

const imageBaseURL = "https://image.tmdb.org/t/p/"

// MovieSummary is the movie shape used in lists, credits and collection parts.
type MovieSummary struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"` // "2024-03-01", may be empty
	PosterPath       string  `json:"poster_path,omitempty"`  // "/abc123.jpg"
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
}

// Year extracts the year from ReleaseDate.
func (m *MovieSummary) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// PosterURL returns the full poster image URL.
// Size can be: w92, w154, w185, w342, w500, w780, original
func (m *MovieSummary) PosterURL(size string) string {
	return imageURL(size, m.PosterPath)
}

// Movie represents TMDB movie detail metadata.
type Movie struct {
	MovieSummary
	IMDBID              string         `json:"imdb_id,omitempty"` // e.g., "tt0133093"
	Runtime             int            `json:"runtime"`           // minutes
	Budget              int64          `json:"budget"`
	Revenue             int64          `json:"revenue"`
	Tagline             string         `json:"tagline,omitempty"`
	Status              string         `json:"status,omitempty"`
	Genres              []Genre        `json:"genres"`
	BelongsToCollection *CollectionRef `json:"belongs_to_collection,omitempty"`
}

// Genre represents a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CollectionRef is the collection reference embedded in a movie.
type CollectionRef struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path,omitempty"`
	BackdropPath string `json:"backdrop_path,omitempty"`
}

// Collection is a named, ordered group of movies.
type Collection struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Overview     string         `json:"overview"`
	PosterPath   string         `json:"poster_path,omitempty"`
	BackdropPath string         `json:"backdrop_path,omitempty"`
	Popularity   float64        `json:"popularity"`
	VoteAverage  float64        `json:"vote_average"`
	VoteCount    int            `json:"vote_count"`
	Parts        []MovieSummary `json:"parts"`
}

// CastMember is one billed entry in a movie's cast.
type CastMember struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character,omitempty"`
	Order       int     `json:"order"`
	ProfilePath string  `json:"profile_path,omitempty"`
	Popularity  float64 `json:"popularity"`
}

// ProfileURL returns the full profile image URL.
func (c *CastMember) ProfileURL(size string) string {
	return imageURL(size, c.ProfilePath)
}

// Credits is the response of /movie/{id}/credits.
type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
}

// MovieCredit is one movie in a person's filmography.
type MovieCredit struct {
	MovieSummary
	Character           string         `json:"character,omitempty"`
	Order               int            `json:"order"`
	CreditID            string         `json:"credit_id,omitempty"`
	BelongsToCollection *CollectionRef `json:"belongs_to_collection,omitempty"`
}

// TVCredit is one TV show in a person's filmography.
type TVCredit struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	Character        string  `json:"character,omitempty"`
	EpisodeCount     int     `json:"episode_count"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
}

// PersonCredits is the response of /person/{id}/movie_credits.
type PersonCredits struct {
	ID   int64         `json:"id,omitempty"`
	Cast []MovieCredit `json:"cast"`
}

// PersonTVCredits is the response of /person/{id}/tv_credits.
type PersonTVCredits struct {
	ID   int64      `json:"id,omitempty"`
	Cast []TVCredit `json:"cast"`
}

// Image is one entry of an images listing.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	VoteAverage float64 `json:"vote_average"`
}

// PersonImages is the response of /person/{id}/images.
type PersonImages struct {
	Profiles []Image `json:"profiles"`
}

// Person is TMDB person detail, optionally with appended credits and images.
type Person struct {
	ID                 int64            `json:"id"`
	Name               string           `json:"name"`
	Biography          string           `json:"biography,omitempty"`
	Birthday           string           `json:"birthday,omitempty"`
	Deathday           string           `json:"deathday,omitempty"`
	PlaceOfBirth       string           `json:"place_of_birth,omitempty"`
	ProfilePath        string           `json:"profile_path,omitempty"`
	KnownForDepartment string           `json:"known_for_department,omitempty"`
	IMDBID             string           `json:"imdb_id,omitempty"`
	Popularity         float64          `json:"popularity"`
	MovieCredits       *PersonCredits   `json:"movie_credits,omitempty"`
	TVCredits          *PersonTVCredits `json:"tv_credits,omitempty"`
	Images             *PersonImages    `json:"images,omitempty"`
}

// ProfileURL returns the full profile image URL.
func (p *Person) ProfileURL(size string) string {
	return imageURL(size, p.ProfilePath)
}

// PersonSummary is the person shape used in list endpoints.
type PersonSummary struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ProfilePath string  `json:"profile_path,omitempty"`
	Popularity  float64 `json:"popularity"`
}

// PeoplePage is one page of a person list endpoint.
type PeoplePage struct {
	Page       int             `json:"page"`
	Results    []PersonSummary `json:"results"`
	TotalPages int             `json:"total_pages"`
}

// MoviePage is one page of a movie list endpoint.
type MoviePage struct {
	Page       int            `json:"page"`
	Results    []MovieSummary `json:"results"`
	TotalPages int            `json:"total_pages"`
}

func imageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + size + path
}
