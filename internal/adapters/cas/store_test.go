package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/crate/internal/adapters/cas"
	"go.trai.ch/crate/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()

	info := domain.BuildInfo{
		TaskName:   "hello:basalt",
		InputHash:  "abc",
		OutputHash: "def",
		Timestamp:  time.Now().Truncate(time.Second),
	}

	require.NoError(t, store.Put(root, info))

	got, err := store.Get(root, "hello:basalt")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info.TaskName, got.TaskName)
	assert.Equal(t, info.InputHash, got.InputHash)
	assert.Equal(t, info.OutputHash, got.OutputHash)
	assert.True(t, info.Timestamp.Equal(got.Timestamp))

	entries, err := os.ReadDir(filepath.Join(root, domain.DefaultStorePath()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	got, err := cas.NewStore().Get(t.TempDir(), "hello:aplite")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Overwrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()

	require.NoError(t, store.Put(root, domain.BuildInfo{TaskName: "hello:chalk", InputHash: "1"}))
	require.NoError(t, store.Put(root, domain.BuildInfo{TaskName: "hello:chalk", InputHash: "2"}))

	got, err := store.Get(root, "hello:chalk")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2", got.InputHash)
}

func TestStore_IsolatedByRoot(t *testing.T) {
	t.Parallel()

	rootA := t.TempDir()
	rootB := t.TempDir()
	store := cas.NewStore()

	require.NoError(t, store.Put(rootA, domain.BuildInfo{TaskName: "hello:diorite", InputHash: "a"}))

	got, err := store.Get(rootB, "hello:diorite")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_GetCorrupt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()
	require.NoError(t, store.Put(root, domain.BuildInfo{TaskName: "hello:basalt"}))

	dir := filepath.Join(root, domain.DefaultStorePath())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("{ invalid json"), 0o600))

	_, err = store.Get(root, "hello:basalt")
	require.ErrorIs(t, err, domain.ErrStoreReadFailed)
}
