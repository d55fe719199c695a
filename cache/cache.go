package cache

// Cache is a key to value memo store with no eviction policy. The zero
// value is an empty cache ready to use.
type Cache struct {
	items map[string]any

	hits   int64
	misses int64
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{items: make(map[string]any)}
}

// Clear removes all values and resets the hit and miss counters.
func (c *Cache) Clear() {
	clear(c.items)
	c.hits = 0
	c.misses = 0
}

// Remove deletes a single value. Removing a missing key is a no-op.
func (c *Cache) Remove(key string) {
	delete(c.items, key)
}

// Get returns the value stored under key. ok=false if missing; a stored nil
// is returned with ok=true.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.items[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// GetOrAdd returns the existing value for key or calls factory once to create
// it. When factory reports false the value is not stored and GetOrAdd returns
// (nil, false), so the next call retries.
func (c *Cache) GetOrAdd(key string, factory func() (any, bool)) (any, bool) {
	if v, ok := c.Get(key); ok {
		return v, true
	}
	v, ok := factory()
	if !ok {
		return nil, false
	}
	c.store(key, v)
	return v, true
}

// AddOrReplace stores value under key and returns it.
func (c *Cache) AddOrReplace(key string, value any) any {
	c.store(key, value)
	return value
}

func (c *Cache) store(key string, value any) {
	if c.items == nil {
		c.items = make(map[string]any)
	}
	c.items[key] = value
}

// Len returns the number of stored entries.
func (c *Cache) Len() int { return len(c.items) }

// Stats returns hit/miss counters and the entry count.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.items)}
}

// Get is the typed form of Cache.Get. A stored value of another type is
// reported as missing.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// GetOrAdd is the typed form of Cache.GetOrAdd.
func GetOrAdd[T any](c *Cache, key string, factory func() (T, bool)) (T, bool) {
	var zero T
	v, ok := c.GetOrAdd(key, func() (any, bool) {
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
