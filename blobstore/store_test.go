package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	// 1. Missing blob
	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// 2. Put/Get
	require.NoError(t, store.Put(ctx, "snapshots/a", []byte("hello")))
	require.NoError(t, store.Put(ctx, "snapshots/b", []byte("world")))
	require.NoError(t, store.Put(ctx, "other/c", []byte("!")))

	data, err := store.Get(ctx, "snapshots/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// 3. Overwrite
	require.NoError(t, store.Put(ctx, "snapshots/a", []byte("hello2")))
	data, err = store.Get(ctx, "snapshots/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello2"), data)

	// 4. List by prefix
	names, err := store.List(ctx, "snapshots/")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/a", "snapshots/b"}, names)

	// 5. Delete (idempotent)
	require.NoError(t, store.Delete(ctx, "snapshots/a"))
	require.NoError(t, store.Delete(ctx, "snapshots/a"))
	_, err = store.Get(ctx, "snapshots/a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'z'
	again, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
