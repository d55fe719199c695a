package cache

import "github.com/hupe1980/gridkit/row"

// RowCache stores values per row, keyed by the row identity field.
type RowCache struct {
	idKey string
	rows  *Cache
}

// NewRowCache creates a RowCache keyed by idKey. An empty idKey disables
// caching until SetRowItemIDKey is called.
func NewRowCache(idKey string) *RowCache {
	return &RowCache{
		idKey: idKey,
		rows:  New(),
	}
}

// IDKey returns the configured identity field.
func (rc *RowCache) IDKey() string { return rc.idKey }

// RowKey resolves the identity of r. Strings are used as-is, numbers in
// their canonical decimal form; anything else has no key.
func (rc *RowCache) RowKey(r row.Row) (string, bool) {
	if rc.idKey == "" {
		return "", false
	}
	v := r.Get(rc.idKey)
	switch v.Kind {
	case row.KindString:
		if v.Str == "" {
			return "", false
		}
		return v.Str, true
	case row.KindNumber:
		return v.Text(), true
	default:
		return "", false
	}
}

// SetRowItemIDKey changes the identity field. A different field invalidates
// every cached value.
func (rc *RowCache) SetRowItemIDKey(idKey string) {
	if idKey == rc.idKey {
		return
	}
	rc.idKey = idKey
	rc.Clear()
}

// Clear removes all values for all rows.
func (rc *RowCache) Clear() {
	rc.rows.Clear()
}

// RemoveRow removes every cached value of r.
func (rc *RowCache) RemoveRow(r row.Row) {
	if rowKey, ok := rc.RowKey(r); ok {
		rc.rows.Remove(rowKey)
	}
}

// Remove removes a single cached value of r.
func (rc *RowCache) Remove(r row.Row, key string) {
	if sub, ok := rc.existing(r); ok {
		sub.Remove(key)
	}
}

// Get returns the value cached for (r, key).
func (rc *RowCache) Get(r row.Row, key string) (any, bool) {
	sub, ok := rc.existing(r)
	if !ok {
		return nil, false
	}
	return sub.Get(key)
}

// GetOrAdd returns the cached value for (r, key) or creates it. Rows without
// an identity call factory on every access and nothing is stored.
func (rc *RowCache) GetOrAdd(r row.Row, key string, factory func() (any, bool)) (any, bool) {
	sub, ok := rc.sub(r)
	if !ok {
		return factory()
	}
	return sub.GetOrAdd(key, factory)
}

// AddOrReplace stores value for (r, key) and returns it. For rows without
// an identity the value is returned but not stored.
func (rc *RowCache) AddOrReplace(r row.Row, key string, value any) any {
	sub, ok := rc.sub(r)
	if !ok {
		return value
	}
	return sub.AddOrReplace(key, value)
}

// Rows returns the number of rows holding cached values.
func (rc *RowCache) Rows() int { return rc.rows.Len() }

// Stats aggregates hit/miss counters over all row sub-caches.
func (rc *RowCache) Stats() Stats {
	var s Stats
	for _, v := range rc.rows.items {
		st := v.(*Cache).Stats()
		s.Hits += st.Hits
		s.Misses += st.Misses
		s.Entries += st.Entries
	}
	return s
}

func (rc *RowCache) existing(r row.Row) (*Cache, bool) {
	rowKey, ok := rc.RowKey(r)
	if !ok {
		return nil, false
	}
	v, ok := rc.rows.items[rowKey]
	if !ok {
		return nil, false
	}
	return v.(*Cache), true
}

func (rc *RowCache) sub(r row.Row) (*Cache, bool) {
	rowKey, ok := rc.RowKey(r)
	if !ok {
		return nil, false
	}
	v, _ := rc.rows.GetOrAdd(rowKey, func() (any, bool) {
		return New(), true
	})
	return v.(*Cache), true
}

// GetRow is the typed form of RowCache.Get.
func GetRow[T any](rc *RowCache, r row.Row, key string) (T, bool) {
	var zero T
	v, ok := rc.Get(r, key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// GetOrAddRow is the typed form of RowCache.GetOrAdd.
func GetOrAddRow[T any](rc *RowCache, r row.Row, key string, factory func() (T, bool)) (T, bool) {
	var zero T
	v, ok := rc.GetOrAdd(r, key, func() (any, bool) {
		return factory()
	})
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
