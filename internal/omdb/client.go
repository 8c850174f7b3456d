// Package omdb provides a client for OMDb movie ratings.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/vmunix/marquee/internal/ttlcache"
)

const defaultBaseURL = "https://www.omdbapi.com"
const defaultCacheTTL = 24 * time.Hour

var (
	// ErrNotFound is returned when OMDb reports an error for the title.
	ErrNotFound = errors.New("title not found")

	// ErrMissingIMDBID is returned when called without an IMDb ID.
	ErrMissingIMDBID = errors.New("imdb id is required")
)

// Rating is one source's score, e.g. {"Rotten Tomatoes", "87%"}.
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Ratings is the subset of the OMDb title response used for display.
type Ratings struct {
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	IMDBID     string   `json:"imdbID"`
	IMDBRating string   `json:"imdbRating"`
	IMDBVotes  string   `json:"imdbVotes"`
	Metascore  string   `json:"Metascore"`
	Ratings    []Rating `json:"Ratings"`
	Response   string   `json:"Response"`
	Error      string   `json:"Error,omitempty"`
}

// Source returns the value reported by the named source, if any.
func (r *Ratings) Source(name string) (string, bool) {
	for _, rt := range r.Ratings {
		if rt.Source == name {
			return rt.Value, true
		}
	}
	return "", false
}

// Client is an OMDb API client with a ratings cache.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *ttlcache.Cache[string, *Ratings]
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

// WithCacheTTL sets the cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = ttlcache.New[string, *Ratings](ttl)
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "omdb")
	}
}

// NewClient creates a new OMDb client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: ttlcache.New[string, *Ratings](defaultCacheTTL),
		log:   slog.Default().With("component", "omdb"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClearCache drops every cached rating.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// GetRatings fetches ratings for an IMDb ID such as "tt0133093".
func (c *Client) GetRatings(ctx context.Context, imdbID string) (*Ratings, error) {
	if imdbID == "" {
		return nil, ErrMissingIMDBID
	}
	if r, ok := c.cache.Get(imdbID); ok {
		return r, nil
	}

	q := url.Values{"i": {imdbID}, "apikey": {c.apiKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie ratings: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OMDb API error: %s", resp.Status)
	}

	var r Ratings
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if r.Error != "" || r.Response == "False" {
		c.log.Debug("omdb returned error", "imdb_id", imdbID, "error", r.Error)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.Error)
	}

	c.cache.Set(imdbID, &r)
	return &r, nil
}
