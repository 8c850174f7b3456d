package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmunix/marquee/internal/collections"
	"github.com/vmunix/marquee/internal/costar"
	"github.com/vmunix/marquee/internal/filmography"
	"github.com/vmunix/marquee/internal/format"
	"github.com/vmunix/marquee/internal/localstore"
	"github.com/vmunix/marquee/internal/maintenance"
	"github.com/vmunix/marquee/internal/omdb"
	"github.com/vmunix/marquee/internal/people"
	"github.com/vmunix/marquee/internal/tmdb"
)

var (
	// ErrActorNotFound is returned when TMDB has no person with the given id.
	ErrActorNotFound = errors.New("actor not found")

	// ErrCollectionNotFound is returned when the id is absent from the
	// collection index.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrMovieNotFound is returned when TMDB has no movie with the given id.
	ErrMovieNotFound = errors.New("movie not found")
)

// Actor is a person with display enrichments.
type Actor struct {
	Person      *tmdb.Person       `json:"person"`
	Age         int                `json:"age,omitempty"`
	Deceased    bool               `json:"deceased"`
	Nationality string             `json:"nationality,omitempty"`
	CountryCode string             `json:"country_code,omitempty"`
	Scores      filmography.Scores `json:"scores"`
}

// Actor returns a cached or freshly fetched person.
func (a *App) Actor(ctx context.Context, id int64) (*Actor, error) {
	p, ok := a.Actors.GetByID(ctx, id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrActorNotFound, id)
	}

	out := &Actor{Person: p, Scores: filmography.Score(p)}
	if p.Deathday != "" {
		out.Deceased = true
		out.Age, _ = format.Age(p.Birthday, p.Deathday)
	} else {
		out.Age, _ = format.AgeAt(p.Birthday, a.clock())
	}
	out.Nationality = people.Nationality(p.PlaceOfBirth)
	out.CountryCode, _ = people.CountryCode(out.Nationality)
	return out, nil
}

// Filmography is a person's movies grouped by collection.
type Filmography struct {
	ActorID  int64              `json:"actor_id"`
	Name     string             `json:"name"`
	Birthday string             `json:"birthday,omitempty"`
	Scores   filmography.Scores `json:"scores"`
	filmography.Organized
}

// Filmography organizes a person's movie credits. Credits appended to the
// cached person are used when present.
func (a *App) Filmography(ctx context.Context, id int64) (*Filmography, error) {
	p, ok := a.Actors.GetByID(ctx, id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrActorNotFound, id)
	}

	var credits []tmdb.MovieCredit
	if p.MovieCredits != nil {
		credits = p.MovieCredits.Cast
	} else {
		pc, err := a.TMDB.GetPersonMovieCredits(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("movie credits: %w", err)
		}
		credits = pc.Cast
	}

	return &Filmography{
		ActorID:   id,
		Name:      p.Name,
		Birthday:  p.Birthday,
		Scores:    filmography.Score(p),
		Organized: filmography.Organize(credits, a.Index),
	}, nil
}

// Connections builds the co-star graph for a person. A layout name such as
// "mobile" overrides the configured limit and cast depth. Build failures are
// logged and reported as an empty graph.
func (a *App) Connections(ctx context.Context, id int64, layout string) (*costar.Graph, error) {
	b := a.CoStars
	if layout != "" {
		p, err := b.Params().Layout(layout)
		if err != nil {
			return nil, err
		}
		b = b.WithParams(p)
	}

	g, err := b.Build(ctx, id)
	if err != nil {
		if errors.Is(err, costar.ErrNoCredits) {
			a.log.Info("no credits for co-star graph", "actor", id)
		} else {
			a.log.Error("failed to build co-star graph", "actor", id, "error", err)
		}
		return &costar.Graph{}, nil
	}
	return g, nil
}

// Collection returns a collection from the record store, falling back to
// the static dataset.
func (a *App) Collection(ctx context.Context, id int64) (*tmdb.Collection, error) {
	if c, ok := a.Collections.CollectionByID(ctx, id); ok {
		return c, nil
	}
	if c, ok := a.Index.CollectionByID(id); ok {
		return &c, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrCollectionNotFound, id)
}

// FindCollection searches the static dataset by name.
func (a *App) FindCollection(query string, limit int) []collections.Match {
	return a.Index.Search(query, limit)
}

// MovieCollection returns the collection a movie belongs to. The static
// dataset is consulted before the record store.
func (a *App) MovieCollection(ctx context.Context, movieID int64) (*tmdb.Collection, error) {
	if ref, ok := a.Index.Lookup(movieID); ok {
		if c, ok := a.Index.CollectionByID(ref.CollectionID); ok {
			return &c, nil
		}
	}
	if c, ok := a.Collections.MovieCollection(ctx, movieID); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w for movie %d", ErrCollectionNotFound, movieID)
}

// Movie is movie detail with its collection and third-party ratings.
type Movie struct {
	Movie      *tmdb.Movie      `json:"movie"`
	Collection *tmdb.Collection `json:"collection,omitempty"`
	Ratings    *omdb.Ratings    `json:"ratings,omitempty"`
}

// Movie fetches movie detail. Ratings are attached when OMDb is configured;
// a ratings failure is logged and leaves Ratings nil.
func (a *App) Movie(ctx context.Context, id int64) (*Movie, error) {
	m, err := a.TMDB.GetMovie(ctx, id)
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrMovieNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("movie %d: %w", id, err)
	}

	out := &Movie{Movie: m}
	if c, ok := a.Index.MovieCollection(m); ok {
		out.Collection = &c
	}
	if a.OMDB != nil && m.IMDBID != "" {
		r, err := a.OMDB.GetRatings(ctx, m.IMDBID)
		if err != nil {
			a.log.Warn("failed to fetch ratings", "movie", id, "imdb_id", m.IMDBID, "error", err)
		} else {
			out.Ratings = r
		}
	}
	return out, nil
}

// StoreStats describes one record store.
type StoreStats struct {
	Name            string     `json:"name"`
	Records         int        `json:"records"`
	Capacity        int        `json:"capacity"`
	LastBulkUpdate  *time.Time `json:"last_bulk_update,omitempty"`
	NeedsBulkUpdate bool       `json:"needs_bulk_update"`
}

// Stats describes the cache as a whole.
type Stats struct {
	Persistent         bool         `json:"persistent"`
	StorageBytes       int64        `json:"storage_bytes"`
	StorageItems       int          `json:"storage_items,omitempty"`
	Stores             []StoreStats `json:"stores"`
	DatasetCollections int          `json:"dataset_collections"`
	DatasetSkipped     int          `json:"dataset_skipped"`
}

type bulkStore interface {
	Len(ctx context.Context) int
	NeedsBulkUpdate(ctx context.Context) bool
	LastBulkUpdate(ctx context.Context) (time.Time, bool)
}

func storeStats(ctx context.Context, name string, capacity int, s bulkStore) StoreStats {
	st := StoreStats{
		Name:            name,
		Records:         s.Len(ctx),
		Capacity:        capacity,
		NeedsBulkUpdate: s.NeedsBulkUpdate(ctx),
	}
	if t, ok := s.LastBulkUpdate(ctx); ok {
		st.LastBulkUpdate = &t
	}
	return st
}

// CacheStats reports record counts, refresh state and substrate usage.
func (a *App) CacheStats(ctx context.Context) (*Stats, error) {
	st := &Stats{
		Stores: []StoreStats{
			storeStats(ctx, "actors", a.actorsCfg.Capacity, a.Actors),
			storeStats(ctx, "collections", a.collCfg.Capacity, a.Collections),
		},
		DatasetCollections: a.Index.Len(),
		DatasetSkipped:     a.Index.Skipped(),
	}

	switch s := a.storage.(type) {
	case *localstore.SQLite:
		bytes, items, err := s.Usage(ctx)
		if err != nil {
			return nil, err
		}
		st.Persistent = true
		st.StorageBytes, st.StorageItems = bytes, items
	case *localstore.Memory:
		st.StorageBytes = s.Used()
	}
	return st, nil
}

// Maintain sweeps stale records and runs any due bulk refresh.
func (a *App) Maintain(ctx context.Context) []maintenance.Result {
	return a.Runner().RunOnce(ctx)
}

// Refresh runs a bulk refresh on both stores whether or not one is due.
func (a *App) Refresh(ctx context.Context) []maintenance.Result {
	return []maintenance.Result{
		{Store: "actors", Refreshed: true, Added: a.Actors.BulkRefresh(ctx)},
		{Store: "collections", Refreshed: true, Added: a.Collections.BulkRefresh(ctx)},
	}
}

// Clear wipes both stores and the in-process response caches.
func (a *App) Clear(ctx context.Context) {
	a.Actors.Clear(ctx)
	a.Collections.Clear(ctx)
	a.TMDB.ClearCache()
	if a.OMDB != nil {
		a.OMDB.ClearCache()
	}
}
