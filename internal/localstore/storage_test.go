package localstore

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func newSQLite(t *testing.T, quota int64) *SQLite {
	t.Helper()
	s, err := NewSQLite(context.Background(), setupTestDB(t), quota)
	require.NoError(t, err)
	return s
}

// storages returns every implementation under test.
func storages(t *testing.T, quota int64) map[string]Storage {
	return map[string]Storage{
		"memory": NewMemory(quota),
		"sqlite": newSQLite(t, quota),
	}
}

func TestStorage_RoundTrip(t *testing.T) {
	for name, s := range storages(t, 0) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.GetItem(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.SetItem(ctx, "actor_details", `{"1":{}}`))
			got, ok, err := s.GetItem(ctx, "actor_details")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"1":{}}`, got)

			// Overwrite
			require.NoError(t, s.SetItem(ctx, "actor_details", `{}`))
			got, _, err = s.GetItem(ctx, "actor_details")
			require.NoError(t, err)
			assert.Equal(t, `{}`, got)

			require.NoError(t, s.RemoveItem(ctx, "actor_details"))
			_, ok, err = s.GetItem(ctx, "actor_details")
			require.NoError(t, err)
			assert.False(t, ok)

			// Removing a missing key is fine
			assert.NoError(t, s.RemoveItem(ctx, "actor_details"))
		})
	}
}

func TestStorage_Quota(t *testing.T) {
	for name, s := range storages(t, 20) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.SetItem(ctx, "a", "123456789")) // 10 bytes
			require.NoError(t, s.SetItem(ctx, "b", "123456789")) // 20 bytes

			err := s.SetItem(ctx, "c", "x")
			assert.ErrorIs(t, err, ErrQuotaExceeded)

			// Failed write leaves the old state intact
			_, ok, err := s.GetItem(ctx, "c")
			require.NoError(t, err)
			assert.False(t, ok)

			// Replacing an existing key only counts the new value
			require.NoError(t, s.SetItem(ctx, "a", "1"))
			require.NoError(t, s.SetItem(ctx, "c", "1234567"))

			// Freeing space allows larger writes again
			require.NoError(t, s.RemoveItem(ctx, "b"))
			assert.NoError(t, s.SetItem(ctx, "d", "1"))
		})
	}
}

func TestStorage_QuotaTooLargeSingleItem(t *testing.T) {
	for name, s := range storages(t, 8) {
		t.Run(name, func(t *testing.T) {
			err := s.SetItem(context.Background(), "k", strings.Repeat("x", 8))
			assert.ErrorIs(t, err, ErrQuotaExceeded)
		})
	}
}

func TestMemory_Used(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	require.NoError(t, m.SetItem(ctx, "ab", "cd"))
	assert.Equal(t, int64(4), m.Used())
	require.NoError(t, m.SetItem(ctx, "ab", "c"))
	assert.Equal(t, int64(3), m.Used())
	require.NoError(t, m.RemoveItem(ctx, "ab"))
	assert.Equal(t, int64(0), m.Used())
}

func TestSQLite_Usage(t *testing.T) {
	s := newSQLite(t, 0)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "ab", "cd"))
	require.NoError(t, s.SetItem(ctx, "e", "f"))

	bytes, items, err := s.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), bytes)
	assert.Equal(t, 2, items)
}

func TestNewSQLite_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	s, err := NewSQLite(ctx, db, 0)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "k", "v"))

	// Re-applying the schema keeps existing data.
	s2, err := NewSQLite(ctx, db, 0)
	require.NoError(t, err)
	got, ok, err := s2.GetItem(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", got)
}
