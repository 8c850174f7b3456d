package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetMovie(t *testing.T) {
	// Mock TMDB API
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/550", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		resp := Movie{
			MovieSummary: MovieSummary{
				ID:          550,
				Title:       "Fight Club",
				Overview:    "An insomniac office worker and a soap maker form a club.",
				ReleaseDate: "1999-10-15",
				PosterPath:  "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
				VoteAverage: 8.4,
			},
			Runtime: 139,
			Budget:  63000000,
			Genres:  []Genre{{ID: 18, Name: "Drama"}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.GetMovie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, int64(550), movie.ID)
	assert.Equal(t, "Fight Club", movie.Title)
	assert.Equal(t, 1999, movie.Year())
	assert.Equal(t, 139, movie.Runtime)
	assert.Equal(t, int64(63000000), movie.Budget)
	assert.Nil(t, movie.BelongsToCollection)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg", movie.PosterURL("w500"))
}

func TestClient_GetMovie_Collection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":603,"title":"The Matrix","release_date":"1999-03-30",
			"belongs_to_collection":{"id":2344,"name":"The Matrix Collection"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.GetMovie(context.Background(), 603)
	require.NoError(t, err)
	require.NotNil(t, movie.BelongsToCollection)
	assert.Equal(t, int64(2344), movie.BelongsToCollection.ID)
	assert.Equal(t, "The Matrix Collection", movie.BelongsToCollection.Name)
}

func TestClient_GetMovie_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.GetMovie(context.Background(), 99999999)
	assert.Nil(t, movie)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient("test-key", WithBaseURL(server.URL))
			_, err := client.GetCollection(context.Background(), 10)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.GetMovieCredits(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_GetMovie_Cached(t *testing.T) {
	var callCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount.Add(1)
		resp := Movie{MovieSummary: MovieSummary{ID: 550, Title: "Fight Club"}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithCacheTTL(time.Hour))

	// First call hits API
	_, err := client.GetMovie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, int32(1), callCount.Load())

	// Second call uses cache
	movie, err := client.GetMovie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", movie.Title)
	assert.Equal(t, int32(1), callCount.Load(), "should use cache, not call API again")

	client.ClearCache()
	_, err = client.GetMovie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, int32(2), callCount.Load(), "cleared cache should refetch")
}

func TestClient_GetPerson(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/person/287", r.URL.Path)
		assert.Equal(t, "movie_credits,tv_credits,images", r.URL.Query().Get("append_to_response"))
		_, _ = w.Write([]byte(`{
			"id": 287,
			"name": "Brad Pitt",
			"birthday": "1963-12-18",
			"profile_path": "/cckcYc2v0yh1tc9QjRelptcOBko.jpg",
			"movie_credits": {"cast": [
				{"id": 550, "title": "Fight Club", "release_date": "1999-10-15", "character": "Tyler Durden", "order": 1, "popularity": 60.5}
			]},
			"tv_credits": {"cast": [
				{"id": 1, "name": "Friends", "first_air_date": "1994-09-22", "episode_count": 1}
			]},
			"images": {"profiles": [
				{"file_path": "/kU3B75TyRiCgE270EyZnHjfivoq.jpg", "width": 1000, "height": 1500, "aspect_ratio": 0.667}
			]}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	person, err := client.GetPerson(context.Background(), 287)
	require.NoError(t, err)
	assert.Equal(t, "Brad Pitt", person.Name)
	require.NotNil(t, person.MovieCredits)
	require.Len(t, person.MovieCredits.Cast, 1)
	credit := person.MovieCredits.Cast[0]
	assert.Equal(t, int64(550), credit.ID)
	assert.Equal(t, "Tyler Durden", credit.Character)
	assert.Equal(t, 1, credit.Order)
	require.NotNil(t, person.TVCredits)
	assert.Equal(t, "Friends", person.TVCredits.Cast[0].Name)
	require.NotNil(t, person.Images)
	require.Len(t, person.Images.Profiles, 1)
	assert.Equal(t, "/kU3B75TyRiCgE270EyZnHjfivoq.jpg", person.Images.Profiles[0].FilePath)
	assert.Equal(t, 1500, person.Images.Profiles[0].Height)
	assert.Equal(t, "https://image.tmdb.org/t/p/w185/cckcYc2v0yh1tc9QjRelptcOBko.jpg", person.ProfileURL("w185"))
}

func TestClient_CacheKeysAreSeparate(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 1, "cast": []}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	ctx := context.Background()

	_, err := client.GetMovieCredits(ctx, 1)
	require.NoError(t, err)
	_, err = client.GetPersonMovieCredits(ctx, 1)
	require.NoError(t, err)
	_, err = client.GetMovieCredits(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"/3/movie/1/credits", "/3/person/1/movie_credits"}, paths)
}

func TestClient_PopularLists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/person/popular":
			_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"name":"A"},{"id":2,"name":"B"}],"total_pages":10}`))
		case "/3/movie/popular":
			_, _ = w.Write([]byte(`{"page":1,"results":[{"id":10,"title":"M"}],"total_pages":3}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	ctx := context.Background()

	people, err := client.PopularPeople(ctx)
	require.NoError(t, err)
	assert.Len(t, people.Results, 2)

	movies, err := client.PopularMovies(ctx)
	require.NoError(t, err)
	require.Len(t, movies.Results, 1)
	assert.Equal(t, "M", movies.Results[0].Title)
}

func TestClient_PopularMoviesPage(t *testing.T) {
	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"page":2,"results":[{"id":11,"title":"N"}],"total_pages":3}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	ctx := context.Background()

	page, err := client.PopularMoviesPage(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)

	_, err = client.PopularMoviesPage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", ""}, pages, "first page is requested without a page parameter")
}

func TestMovieSummary_Year(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"1999-10-15", 1999},
		{"", 0},
		{"19", 0},
		{"abcd-01-01", 0},
	}
	for _, tt := range tests {
		m := MovieSummary{ReleaseDate: tt.date}
		assert.Equal(t, tt.want, m.Year(), tt.date)
	}
}
