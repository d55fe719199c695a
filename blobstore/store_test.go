package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeLifecycle(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing.json")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "datasets/orders.json", []byte(`[{"id":1}]`)))

	w, err := store.Create(ctx, "views/grid/default.json")
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"name":"default"}`))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	data, err := ReadAll(ctx, store, "datasets/orders.json")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(data))

	blob, err := store.Open(ctx, "views/grid/default.json")
	require.NoError(t, err)
	assert.Equal(t, int64(18), blob.Size())

	buf := make([]byte, 7)
	n, err := blob.ReadAt(ctx, buf, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, `"name":`, string(buf))

	rc, err := blob.ReadRange(ctx, 9, 7)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, `default`, string(part))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"datasets/orders.json", "views/grid/default.json"}, names)

	names, err = store.List(ctx, "views/")
	require.NoError(t, err)
	assert.Equal(t, []string{"views/grid/default.json"}, names)

	require.NoError(t, store.Delete(ctx, "datasets/orders.json"))
	require.NoError(t, store.Delete(ctx, "datasets/orders.json"))
	_, err = store.Open(ctx, "datasets/orders.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	storeLifecycle(t, NewMemoryStore())
}

func TestLocalStore_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	storeLifecycle(t, NewLocalStore(dir))

	_, err := os.Stat(filepath.Join(dir, "views", "grid", "default.json"))
	assert.NoError(t, err)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "nope"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestReadAll_Empty(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "empty", nil))

	data, err := ReadAll(context.Background(), store, "empty")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCachingStore(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	require.NoError(t, inner.Put(ctx, "a", []byte("aaaa")))
	require.NoError(t, inner.Put(ctx, "b", []byte("bbbb")))
	require.NoError(t, inner.Put(ctx, "c", []byte("cccc")))

	store := NewCachingStore(inner, 8)

	data, err := ReadAll(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, "aaaa", string(data))

	_, err = ReadAll(ctx, store, "a")
	require.NoError(t, err)

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	// Loading b and c evicts a.
	require.NoError(t, store.Prefetch(ctx, []string{"b", "c"}, 2))
	stats = store.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(8), stats.Bytes)

	_, ok := store.lookup("a")
	assert.False(t, ok)

	// Writes invalidate.
	require.NoError(t, store.Put(ctx, "b", []byte("BB")))
	data, err = ReadAll(ctx, store, "b")
	require.NoError(t, err)
	assert.Equal(t, "BB", string(data))

	require.NoError(t, store.Delete(ctx, "c"))
	_, err = store.Open(ctx, "c")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Prefetch(ctx, []string{"missing"}, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_PutIf(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.PutIf(ctx, "a", []byte("one"), ""))
	assert.ErrorIs(t, m.PutIf(ctx, "a", []byte("again"), ""), ErrPreconditionFailed)

	data, rev, err := m.GetRevision(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	require.NoError(t, m.PutIf(ctx, "a", []byte("two"), rev))
	assert.ErrorIs(t, m.PutIf(ctx, "a", []byte("stale"), rev), ErrPreconditionFailed)

	// Unconditional writes also move the revision.
	_, rev, err = m.GetRevision(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, m.Put(ctx, "a", []byte("three")))
	assert.ErrorIs(t, m.PutIf(ctx, "a", []byte("four"), rev), ErrPreconditionFailed)

	assert.ErrorIs(t, m.PutIf(ctx, "missing", []byte("x"), rev), ErrPreconditionFailed)
	_, _, err = m.GetRevision(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
