package cache

import (
	"testing"

	"github.com/hupe1980/gridkit/row"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowCache_RowKey(t *testing.T) {
	rc := NewRowCache("id")

	k, ok := rc.RowKey(row.Row{"id": row.Int(42)})
	require.True(t, ok)
	assert.Equal(t, "42", k)

	k, ok = rc.RowKey(row.Row{"id": row.String("abc")})
	require.True(t, ok)
	assert.Equal(t, "abc", k)

	_, ok = rc.RowKey(row.Row{"id": row.String("")})
	assert.False(t, ok)
	_, ok = rc.RowKey(row.Row{"id": row.Bool(true)})
	assert.False(t, ok)
	_, ok = rc.RowKey(row.Row{"name": row.String("x")})
	assert.False(t, ok)

	_, ok = NewRowCache("").RowKey(row.Row{"id": row.Int(1)})
	assert.False(t, ok)
}

func TestRowCache_CachesPerRow(t *testing.T) {
	rc := NewRowCache("id")
	r1 := row.Row{"id": row.Int(1)}
	r2 := row.Row{"id": row.Int(2)}
	calls := 0

	factory := func(v string) func() (any, bool) {
		return func() (any, bool) {
			calls++
			return v, true
		}
	}

	v, _ := rc.GetOrAdd(r1, "name", factory("one"))
	assert.Equal(t, "one", v)
	v, _ = rc.GetOrAdd(r1, "name", factory("ignored"))
	assert.Equal(t, "one", v)
	v, _ = rc.GetOrAdd(r2, "name", factory("two"))
	assert.Equal(t, "two", v)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, rc.Rows())

	got, ok := GetRow[string](rc, row.Row{"id": row.Int(1)}, "name")
	require.True(t, ok, "identity, not map pointer, selects the sub-cache")
	assert.Equal(t, "one", got)
}

func TestRowCache_NoIdentityNeverCaches(t *testing.T) {
	rc := NewRowCache("")
	r := row.Row{"id": row.Int(1)}
	calls := 0

	for range 3 {
		v, ok := rc.GetOrAdd(r, "k", func() (any, bool) {
			calls++
			return calls, true
		})
		require.True(t, ok)
		assert.Equal(t, calls, v)
	}
	assert.Equal(t, 3, calls)

	assert.Equal(t, "x", rc.AddOrReplace(r, "k", "x"))
	_, ok := rc.Get(r, "k")
	assert.False(t, ok)

	rc.Remove(r, "k")
	assert.Equal(t, 0, rc.Rows())
}

func TestRowCache_RemoveAndRemoveRow(t *testing.T) {
	rc := NewRowCache("id")
	r := row.Row{"id": row.Int(7)}

	rc.AddOrReplace(r, "a", 1)
	rc.AddOrReplace(r, "b", 2)

	rc.Remove(r, "a")
	_, ok := rc.Get(r, "a")
	assert.False(t, ok)
	v, ok := rc.Get(r, "b")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	rc.RemoveRow(r)
	_, ok = rc.Get(r, "b")
	assert.False(t, ok)
}

func TestRowCache_SetRowItemIDKeyInvalidates(t *testing.T) {
	rc := NewRowCache("id")
	r := row.Row{"id": row.Int(1), "guid": row.String("g-1")}

	rc.AddOrReplace(r, "field", "stale")

	rc.SetRowItemIDKey("id")
	v, ok := rc.Get(r, "field")
	require.True(t, ok, "same key keeps data")
	assert.Equal(t, "stale", v)

	rc.SetRowItemIDKey("guid")
	assert.Equal(t, "guid", rc.IDKey())

	v, _ = rc.GetOrAdd(r, "field", func() (any, bool) { return "fresh", true })
	assert.Equal(t, "fresh", v)
}

func TestRowCache_NotFoundFactoryIsNotStored(t *testing.T) {
	rc := NewRowCache("id")
	r := row.Row{"id": row.Int(1)}

	_, ok := rc.GetOrAdd(r, "k", func() (any, bool) { return nil, false })
	assert.False(t, ok)
	_, ok = rc.Get(r, "k")
	assert.False(t, ok)
}
