// Package people caches actor details in the persisted record store.
package people

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vmunix/marquee/internal/localstore"
	"github.com/vmunix/marquee/internal/recordstore"
	"github.com/vmunix/marquee/internal/tmdb"
)

// Storage keys and defaults for the actor store.
const (
	RecordsKey    = "actor_details"
	LastUpdateKey = "actors_last_update"

	DefaultCapacity        = 100
	DefaultStaleAfter      = 7 * 24 * time.Hour
	DefaultRefreshInterval = 7 * 24 * time.Hour
)

// API is the subset of the TMDB client the actor store needs.
type API interface {
	GetPerson(ctx context.Context, personID int64) (*tmdb.Person, error)
	PopularPeople(ctx context.Context) (*tmdb.PeoplePage, error)
}

// DefaultConfig returns the record store settings for actors.
func DefaultConfig() recordstore.Config {
	return recordstore.Config{
		RecordsKey:      RecordsKey,
		LastUpdateKey:   LastUpdateKey,
		Capacity:        DefaultCapacity,
		StaleAfter:      DefaultStaleAfter,
		RefreshInterval: DefaultRefreshInterval,
	}
}

type fetcher struct {
	api API
}

func (f fetcher) FetchOne(ctx context.Context, id int64) (*tmdb.Person, error) {
	p, err := f.api.GetPerson(ctx, id)
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func (f fetcher) FetchSeed(ctx context.Context) ([]int64, error) {
	page, err := f.api.PopularPeople(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(page.Results))
	for _, p := range page.Results {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// Store is the persisted actor cache.
type Store struct {
	*recordstore.Store[tmdb.Person]
}

// NewStore creates the actor store over storage.
func NewStore(storage localstore.Storage, api API, cfg recordstore.Config, log *slog.Logger, opts ...recordstore.Option) *Store {
	if log == nil {
		log = slog.Default()
	}
	opts = append([]recordstore.Option{recordstore.WithLogger(log.With("component", "people"))}, opts...)
	return &Store{Store: recordstore.New[tmdb.Person](storage, fetcher{api: api}, cfg, opts...)}
}
