package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "marquee", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read written file")

	assert.Contains(t, string(content), "[tmdb]")
	assert.Contains(t, string(content), "[collections]")
	assert.Contains(t, string(content), "${TMDB_API_KEY")
}

func TestWriteDefault_CreatesDir(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "deep", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	_, err = os.Stat(path)
	assert.False(t, os.IsNotExist(err), "file was not created")
}

func TestConfig_Write(t *testing.T) {
	cfg := Default()
	cfg.TMDB.APIKey = "written-key"
	cfg.CoStar.Layout = "tablet"

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Write(path), "Write failed")

	back, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "written-key", back.TMDB.APIKey)
	assert.Equal(t, "tablet", back.CoStar.Layout)
	assert.Equal(t, cfg.Actors.StaleAfter, back.Actors.StaleAfter)
	assert.Equal(t, cfg.Collections.Capacity, back.Collections.Capacity)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), resolvedHeader))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteDefault_LoadsWithOnlyTMDBKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "only-key")
	t.Setenv("OMDB_API_KEY", "")
	require.NoError(t, os.Unsetenv("OMDB_API_KEY"))
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "only-key", cfg.TMDB.APIKey)
	assert.Empty(t, cfg.OMDB.APIKey)
	assert.Equal(t, int64(5242880), cfg.Storage.QuotaBytes)
}
