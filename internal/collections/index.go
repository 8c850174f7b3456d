// Package collections provides the static collection lookup index and the
// persisted collection record store.
package collections

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/vmunix/marquee/internal/tmdb"
)

//go:embed data/collections.json
var defaultDataset []byte

// Dataset maps collection id (as a string) to its record, the shape of the
// collections seed file.
type Dataset map[string]tmdb.Collection

// DefaultDataset returns the dataset bundled with the binary.
func DefaultDataset() (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(defaultDataset, &ds); err != nil {
		return nil, fmt.Errorf("decode bundled collections: %w", err)
	}
	return ds, nil
}

// LoadDataset decodes a collections seed file.
func LoadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode collections: %w", err)
	}
	return ds, nil
}

// LoadDatasetFile reads a collections seed file from disk.
func LoadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open collections: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadDataset(f)
}

// Valid reports whether c is usable for grouping: it has an id, a name and
// at least one part.
func Valid(c tmdb.Collection) bool {
	return c.ID != 0 && c.Name != "" && len(c.Parts) > 0
}

// MovieRef is the reverse-index entry for a movie that belongs to a collection.
type MovieRef struct {
	CollectionID   int64  `json:"collectionId"`
	CollectionName string `json:"collectionName"`
	MovieCount     int    `json:"movieCount"`
}

// Index answers collection lookups over a static dataset. It is built on
// first use and never changes afterwards; collections it returns must be
// treated as read-only.
type Index struct {
	source Dataset

	once    sync.Once
	byID    map[int64]tmdb.Collection
	byMovie map[int64]MovieRef
	skipped int
}

// NewIndex creates an index over ds. Nothing is computed until first use.
func NewIndex(ds Dataset) *Index {
	return &Index{source: ds}
}

func (x *Index) ensureBuilt() {
	x.once.Do(x.build)
}

// build derives both maps. Collections are visited in ascending id order and
// later entries overwrite earlier ones, so a movie listed in two collections
// resolves to the higher id.
func (x *Index) build() {
	x.byID = make(map[int64]tmdb.Collection, len(x.source))
	x.byMovie = make(map[int64]MovieRef)

	ids := make([]int64, 0, len(x.source))
	for k, c := range x.source {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			x.skipped++
			continue
		}
		c.ID = id
		if !Valid(c) {
			x.skipped++
			continue
		}
		x.byID[id] = c
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		c := x.byID[id]
		for _, part := range c.Parts {
			x.byMovie[part.ID] = MovieRef{
				CollectionID:   id,
				CollectionName: c.Name,
				MovieCount:     len(c.Parts),
			}
		}
	}
}

// CollectionByID returns the collection with the given id.
func (x *Index) CollectionByID(id int64) (tmdb.Collection, bool) {
	x.ensureBuilt()
	c, ok := x.byID[id]
	return c, ok
}

// MovieCollection returns the collection a movie declares it belongs to.
func (x *Index) MovieCollection(m *tmdb.Movie) (tmdb.Collection, bool) {
	if m == nil || m.BelongsToCollection == nil || m.BelongsToCollection.ID == 0 {
		return tmdb.Collection{}, false
	}
	return x.CollectionByID(m.BelongsToCollection.ID)
}

// Lookup returns the reverse-index entry for a movie id.
func (x *Index) Lookup(movieID int64) (MovieRef, bool) {
	x.ensureBuilt()
	ref, ok := x.byMovie[movieID]
	return ref, ok
}

// All returns every indexed collection keyed by id.
func (x *Index) All() map[int64]tmdb.Collection {
	x.ensureBuilt()
	out := make(map[int64]tmdb.Collection, len(x.byID))
	for id, c := range x.byID {
		out[id] = c
	}
	return out
}

// Len returns the number of indexed collections.
func (x *Index) Len() int {
	x.ensureBuilt()
	return len(x.byID)
}

// Skipped returns how many dataset entries were rejected as invalid.
func (x *Index) Skipped() int {
	x.ensureBuilt()
	return x.skipped
}
