package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/marquee/internal/collections"
	"github.com/vmunix/marquee/internal/tmdb"
)

type fakeAPI struct {
	pages       [][]int64
	belongs     map[int64]int64
	collections map[int64]tmdb.Collection
	fetched     []int64
}

func (f *fakeAPI) PopularMoviesPage(_ context.Context, page int) (*tmdb.MoviePage, error) {
	if page > len(f.pages) {
		return nil, errors.New("no such page")
	}
	out := &tmdb.MoviePage{Page: page, TotalPages: len(f.pages)}
	for _, id := range f.pages[page-1] {
		out.Results = append(out.Results, tmdb.MovieSummary{ID: id})
	}
	return out, nil
}

func (f *fakeAPI) GetMovie(_ context.Context, id int64) (*tmdb.Movie, error) {
	m := &tmdb.Movie{MovieSummary: tmdb.MovieSummary{ID: id}}
	if cid, ok := f.belongs[id]; ok {
		m.BelongsToCollection = &tmdb.CollectionRef{ID: cid}
	}
	return m, nil
}

func (f *fakeAPI) GetCollection(_ context.Context, id int64) (*tmdb.Collection, error) {
	f.fetched = append(f.fetched, id)
	c, ok := f.collections[id]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return &c, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages: [][]int64{{603, 604, 1}, {245891, 2}},
		belongs: map[int64]int64{
			603:    2344,
			604:    2344,
			1:      77,
			245891: 404609,
			2:      88,
		},
		collections: map[int64]tmdb.Collection{
			2344:   {ID: 2344, Name: "The Matrix Collection", Parts: []tmdb.MovieSummary{{ID: 603}, {ID: 604}}},
			404609: {ID: 404609, Name: "John Wick Collection", Parts: []tmdb.MovieSummary{{ID: 245891}}},
			88:     {ID: 88, Name: "Empty Collection"},
		},
	}
}

func TestCollect(t *testing.T) {
	f := newFakeAPI()
	ds := collections.Dataset{}
	var out bytes.Buffer

	added := collect(context.Background(), f, ds, 5, 0, &out)

	assert.Equal(t, 2, added)
	assert.Contains(t, ds, "2344")
	assert.Contains(t, ds, "404609")
	assert.NotContains(t, ds, "88", "collections without parts are invalid")
	assert.Equal(t, []int64{2344, 77, 404609, 88}, f.fetched, "each collection fetched once")
	assert.Contains(t, out.String(), "page 2: 2 movies, 1 new collections")
}

func TestCollect_SkipsExisting(t *testing.T) {
	f := newFakeAPI()
	ds := collections.Dataset{"2344": {ID: 2344, Name: "Kept", Parts: []tmdb.MovieSummary{{ID: 603}}}}

	added := collect(context.Background(), f, ds, 1, 0, &bytes.Buffer{})

	assert.Equal(t, 0, added)
	assert.Equal(t, "Kept", ds["2344"].Name)
	assert.NotContains(t, f.fetched, int64(2344))
}

func TestWriteDataset_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "collections.json")
	ds := collections.Dataset{
		"2344": {ID: 2344, Name: "The Matrix Collection", Parts: []tmdb.MovieSummary{{ID: 603, Title: "The Matrix"}}},
	}
	require.NoError(t, writeDataset(path, ds))

	got, err := collections.LoadDatasetFile(path)
	require.NoError(t, err)
	idx := collections.NewIndex(got)
	ref, ok := idx.Lookup(603)
	require.True(t, ok)
	assert.Equal(t, int64(2344), ref.CollectionID)
}
