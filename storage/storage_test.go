package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaclone/storage"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := storage.NewMemory()

	_, ok := m.Get("user")
	assert.False(t, ok)

	require.NoError(t, m.Set("user", "alice"))
	v, ok := m.Get("user")
	assert.True(t, ok)
	assert.Equal(t, "alice", v)

	require.NoError(t, m.Delete("user"))
	_, ok = m.Get("user")
	assert.False(t, ok)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")

	f, err := storage.OpenFile(path)
	require.NoError(t, err)

	_, ok := f.Get("token")
	assert.False(t, ok)

	require.NoError(t, f.Set("token", "abc"))
	require.NoError(t, f.Set("user", `{"id":"1"}`))

	v, ok := f.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, f.Delete("token"))
	_, ok = f.Get("token")
	assert.False(t, ok)
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "slots.json")

	f, err := storage.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("token", "abc"))

	reopened, err := storage.OpenFile(path)
	require.NoError(t, err)
	v, ok := reopened.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestOpenFileMissingIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does", "not", "exist.json")
	f, err := storage.OpenFile(path)
	require.NoError(t, err)
	_, ok := f.Get("anything")
	assert.False(t, ok)
}

func TestOpenFileRejectsCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := storage.OpenFile(path)
	assert.Error(t, err)
}

func TestFileIsPrivate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	f, err := storage.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("token", "abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
