package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vmunix/marquee/internal/ttlcache"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = time.Hour

// Sentinel errors for TMDB API responses.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized: invalid api key")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

// Client is a TMDB API client.
// Responses are cached by request path: person endpoints in their own cache,
// everything else in a shared response cache.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	responses  *ttlcache.Cache[string, []byte]
	people     *ttlcache.Cache[string, []byte]
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the TTL of the movie/collection/list response cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.responses = ttlcache.New[string, []byte](ttl)
	}
}

// WithPersonCacheTTL sets the TTL of the person response cache.
func WithPersonCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.people = ttlcache.New[string, []byte](ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "tmdb")
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		responses: ttlcache.New[string, []byte](defaultCacheTTL),
		people:    ttlcache.New[string, []byte](defaultCacheTTL),
		log:       slog.Default().With("component", "tmdb"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.responses.Clear()
	c.people.Clear()
}

// GetMovie fetches movie metadata by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	var movie Movie
	if err := c.getJSON(ctx, c.responses, fmt.Sprintf("/movie/%d", tmdbID), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetMovieCredits fetches the cast of a movie.
func (c *Client) GetMovieCredits(ctx context.Context, tmdbID int64) (*Credits, error) {
	var credits Credits
	if err := c.getJSON(ctx, c.responses, fmt.Sprintf("/movie/%d/credits", tmdbID), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// GetCollection fetches a collection with its parts.
func (c *Client) GetCollection(ctx context.Context, collectionID int64) (*Collection, error) {
	var coll Collection
	if err := c.getJSON(ctx, c.responses, fmt.Sprintf("/collection/%d", collectionID), nil, &coll); err != nil {
		return nil, err
	}
	return &coll, nil
}

// GetPerson fetches person detail with movie credits, TV credits and
// profile images appended.
func (c *Client) GetPerson(ctx context.Context, personID int64) (*Person, error) {
	params := url.Values{"append_to_response": {"movie_credits,tv_credits,images"}}
	var person Person
	if err := c.getJSON(ctx, c.people, fmt.Sprintf("/person/%d", personID), params, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// GetPersonMovieCredits fetches a person's movie filmography.
func (c *Client) GetPersonMovieCredits(ctx context.Context, personID int64) (*PersonCredits, error) {
	var credits PersonCredits
	if err := c.getJSON(ctx, c.people, fmt.Sprintf("/person/%d/movie_credits", personID), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// PopularPeople fetches the first page of popular people.
func (c *Client) PopularPeople(ctx context.Context) (*PeoplePage, error) {
	var page PeoplePage
	if err := c.getJSON(ctx, c.people, "/person/popular", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PopularMovies fetches the first page of popular movies.
func (c *Client) PopularMovies(ctx context.Context) (*MoviePage, error) {
	return c.PopularMoviesPage(ctx, 1)
}

// PopularMoviesPage fetches one page of popular movies, starting at 1.
func (c *Client) PopularMoviesPage(ctx context.Context, page int) (*MoviePage, error) {
	var params url.Values
	if page > 1 {
		params = url.Values{"page": {strconv.Itoa(page)}}
	}
	var out MoviePage
	if err := c.getJSON(ctx, c.responses, "/movie/popular", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// getJSON resolves GET /3{path} into out, consulting cache first.
// The cache key never contains the API key.
func (c *Client) getJSON(ctx context.Context, cache *ttlcache.Cache[string, []byte], path string, params url.Values, out any) error {
	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if data, ok := cache.Get(key); ok {
		if err := json.Unmarshal(data, out); err == nil {
			c.log.Debug("cache hit", "path", key)
			return nil
		}
		c.log.Warn("failed to unmarshal cached response", "path", key)
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + "/3" + path + "?" + query.Encode()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	c.log.Debug("fetched", "path", key, "duration_ms", time.Since(start).Milliseconds())
	cache.Set(key, data)
	return nil
}
