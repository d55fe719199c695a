package blobstore

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// CachingStore wraps a BlobStore and keeps whole blobs in memory, evicting
// the least recently used ones once maxBytes is exceeded. It suits remote
// stores where the same dataset is reloaded many times.
type CachingStore struct {
	inner    BlobStore
	maxBytes int64

	mu      sync.Mutex
	used    int64
	lru     *list.List
	entries map[string]*list.Element

	hits   atomic.Int64
	misses atomic.Int64
}

type cachedBlob struct {
	name string
	data []byte
}

// CacheStats reports CachingStore usage.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
	Bytes   int64
}

// NewCachingStore creates a new CachingStore.
// maxBytes defaults to 64MB if <= 0.
func NewCachingStore(inner BlobStore, maxBytes int64) *CachingStore {
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	return &CachingStore{
		inner:    inner,
		maxBytes: maxBytes,
		lru:      list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Open returns the cached blob or reads it through from the inner store.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.lookup(name); ok {
		s.hits.Add(1)
		return &memoryBlob{data: data}, nil
	}
	s.misses.Add(1)

	data, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.store(name, data)
	return &memoryBlob{data: data}, nil
}

// Create passes through to the inner store and invalidates name.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

// Put writes through and invalidates name.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete deletes through and invalidates name.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List is not cached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Prefetch loads names into the cache with at most concurrency parallel
// reads. A concurrency <= 0 means unlimited.
func (s *CachingStore) Prefetch(ctx context.Context, names []string, concurrency int) error {
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for _, name := range names {
		if _, ok := s.lookup(name); ok {
			continue
		}
		g.Go(func() error {
			data, err := ReadAll(gctx, s.inner, name)
			if err != nil {
				return err
			}
			s.store(name, data)
			return nil
		})
	}
	return g.Wait()
}

// Stats returns a snapshot of cache usage.
func (s *CachingStore) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CacheStats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Entries: len(s.entries),
		Bytes:   s.used,
	}
}

func (s *CachingStore) lookup(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	s.lru.MoveToFront(el)
	return el.Value.(*cachedBlob).data, true
}

func (s *CachingStore) store(name string, data []byte) {
	size := int64(len(data))
	if size > s.maxBytes {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[name]; ok {
		s.used -= int64(len(el.Value.(*cachedBlob).data))
		s.lru.Remove(el)
		delete(s.entries, name)
	}

	for s.used+size > s.maxBytes {
		oldest := s.lru.Back()
		if oldest == nil {
			break
		}
		cb := oldest.Value.(*cachedBlob)
		s.used -= int64(len(cb.data))
		s.lru.Remove(oldest)
		delete(s.entries, cb.name)
	}

	s.entries[name] = s.lru.PushFront(&cachedBlob{name: name, data: data})
	s.used += size
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[name]; ok {
		s.used -= int64(len(el.Value.(*cachedBlob).data))
		s.lru.Remove(el)
		delete(s.entries, name)
	}
}
