package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sealgate/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	return store
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	cred, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cred.IsZero())

	require.NoError(t, store.Set(ctx, "tok-1", "u@x.com"))

	cred, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Credential{Token: "tok-1", Email: "u@x.com"}, cred)

	require.NoError(t, store.Clear(ctx))
	cred, err = store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cred.IsZero())

	// Clearing an already empty store is not an error
	require.NoError(t, store.Clear(ctx))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	ctx := context.Background()

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "tok-1", "u@x.com"))

	// A fresh instance (restarted agent) sees the same pair
	second, err := NewFileStore(path)
	require.NoError(t, err)
	cred, err := second.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", cred.Token)
	assert.Equal(t, "u@x.com", cred.Email)
}

func TestFileStore_FileMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	ctx := context.Background()

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "tok-1", "u@x.com"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_IgnoresHalfPairOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"orphan"}`), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	cred, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, cred.IsZero())
}

func TestFileStore_RejectsHalfPair(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Set(ctx, "tok", ""), models.ErrIncompleteCredential)
	assert.ErrorIs(t, store.Set(ctx, "", "u@x.com"), models.ErrIncompleteCredential)
}
