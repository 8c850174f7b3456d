package collections

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/marquee/internal/localstore"
	"github.com/vmunix/marquee/internal/recordstore"
	"github.com/vmunix/marquee/internal/tmdb"
)

// Storage keys and defaults for the collection store.
const (
	RecordsKey    = "movie_collections"
	LastUpdateKey = "collections_last_update"

	DefaultCapacity        = 250
	DefaultStaleAfter      = 7 * 24 * time.Hour
	DefaultRefreshInterval = 7 * 24 * time.Hour
)

// seedConcurrency caps movie detail lookups while building the seed list.
const seedConcurrency = 8

// API is the subset of the TMDB client the collection store needs.
type API interface {
	GetCollection(ctx context.Context, collectionID int64) (*tmdb.Collection, error)
	GetMovie(ctx context.Context, movieID int64) (*tmdb.Movie, error)
	PopularMovies(ctx context.Context) (*tmdb.MoviePage, error)
}

// DefaultConfig returns the record store settings for collections.
func DefaultConfig() recordstore.Config {
	return recordstore.Config{
		RecordsKey:      RecordsKey,
		LastUpdateKey:   LastUpdateKey,
		Capacity:        DefaultCapacity,
		StaleAfter:      DefaultStaleAfter,
		RefreshInterval: DefaultRefreshInterval,
	}
}

// fetcher adapts the TMDB client to recordstore.Fetcher.
type fetcher struct {
	api API
	log *slog.Logger
}

func (f *fetcher) FetchOne(ctx context.Context, id int64) (*tmdb.Collection, error) {
	c, err := f.api.GetCollection(ctx, id)
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

// FetchSeed resolves the collections of the current popular movies. Movies
// whose detail lookup fails are skipped.
func (f *fetcher) FetchSeed(ctx context.Context) ([]int64, error) {
	page, err := f.api.PopularMovies(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]int64, len(page.Results))
	var g errgroup.Group
	g.SetLimit(seedConcurrency)
	for i, m := range page.Results {
		g.Go(func() error {
			movie, err := f.api.GetMovie(ctx, m.ID)
			if err != nil {
				f.log.Debug("skipping popular movie", "movie_id", m.ID, "error", err)
				return nil
			}
			if movie.BelongsToCollection != nil {
				refs[i] = movie.BelongsToCollection.ID
			}
			return nil
		})
	}
	_ = g.Wait()

	var ids []int64
	seen := make(map[int64]bool)
	for _, id := range refs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// Store is the persisted collection cache.
type Store struct {
	*recordstore.Store[tmdb.Collection]
	api API
	log *slog.Logger
}

// NewStore creates the collection store over storage.
func NewStore(storage localstore.Storage, api API, cfg recordstore.Config, log *slog.Logger, opts ...recordstore.Option) *Store {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "collections")
	opts = append([]recordstore.Option{recordstore.WithLogger(log)}, opts...)
	return &Store{
		Store: recordstore.New[tmdb.Collection](storage, &fetcher{api: api, log: log}, cfg, opts...),
		api:   api,
		log:   log,
	}
}

// CollectionByID returns a collection, running a bulk refresh first when one
// is due.
func (s *Store) CollectionByID(ctx context.Context, id int64) (*tmdb.Collection, bool) {
	if s.NeedsBulkUpdate(ctx) {
		s.BulkRefresh(ctx)
	}
	return s.GetByID(ctx, id)
}

// MovieCollection returns the collection containing movieID. Cached
// collections are scanned first; otherwise the movie detail is fetched and
// its declared collection resolved through the store.
func (s *Store) MovieCollection(ctx context.Context, movieID int64) (*tmdb.Collection, bool) {
	cached := s.Snapshot(ctx)
	ids := make([]int64, 0, len(cached))
	for id := range cached {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		for _, part := range cached[id].Value.Parts {
			if part.ID == movieID {
				return s.GetByID(ctx, id)
			}
		}
	}

	movie, err := s.api.GetMovie(ctx, movieID)
	if err != nil {
		s.log.Warn("movie lookup failed", "movie_id", movieID, "error", err)
		return nil, false
	}
	if movie.BelongsToCollection == nil || movie.BelongsToCollection.ID == 0 {
		return nil, false
	}
	return s.GetByID(ctx, movie.BelongsToCollection.ID)
}
