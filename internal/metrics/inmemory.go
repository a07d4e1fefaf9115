package metrics

import (
	"sync"
	"sync/atomic"
)

// EntityCounters holds cache counters for one entity kind.
type EntityCounters struct {
	CacheHits        uint64
	CacheMisses      uint64
	CacheSets        uint64
	InvalidatedKeys  uint64
	Invalidations    uint64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Cache             map[string]EntityCounters
	LinksCreated      uint64
	LinksUpdated      uint64
	LinksDeleted      uint64
	CategoriesCreated uint64
	CategoriesUpdated uint64
	CategoriesDeleted uint64
}

// InMemoryRecorder stores metrics in memory. Used by tests and the
// metrics endpoint.
type InMemoryRecorder struct {
	mu    sync.Mutex
	cache map[string]*EntityCounters

	linksCreated      uint64
	linksUpdated      uint64
	linksDeleted      uint64
	categoriesCreated uint64
	categoriesUpdated uint64
	categoriesDeleted uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{cache: make(map[string]*EntityCounters)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	cache := make(map[string]EntityCounters, len(m.cache))
	for entity, c := range m.cache {
		cache[entity] = *c
	}
	m.mu.Unlock()

	return Snapshot{
		Cache:             cache,
		LinksCreated:      atomic.LoadUint64(&m.linksCreated),
		LinksUpdated:      atomic.LoadUint64(&m.linksUpdated),
		LinksDeleted:      atomic.LoadUint64(&m.linksDeleted),
		CategoriesCreated: atomic.LoadUint64(&m.categoriesCreated),
		CategoriesUpdated: atomic.LoadUint64(&m.categoriesUpdated),
		CategoriesDeleted: atomic.LoadUint64(&m.categoriesDeleted),
	}
}

func (m *InMemoryRecorder) entity(name string) *EntityCounters {
	c, ok := m.cache[name]
	if !ok {
		c = &EntityCounters{}
		m.cache[name] = c
	}
	return c
}

// IncCacheHit increments the hit counter for an entity kind.
func (m *InMemoryRecorder) IncCacheHit(entity string) {
	m.mu.Lock()
	m.entity(entity).CacheHits++
	m.mu.Unlock()
}

// IncCacheMiss increments the miss counter for an entity kind.
func (m *InMemoryRecorder) IncCacheMiss(entity string) {
	m.mu.Lock()
	m.entity(entity).CacheMisses++
	m.mu.Unlock()
}

// IncCacheSet increments the set counter for an entity kind.
func (m *InMemoryRecorder) IncCacheSet(entity string) {
	m.mu.Lock()
	m.entity(entity).CacheSets++
	m.mu.Unlock()
}

// IncCacheInvalidation records one invalidation sweep and how many
// keys it removed.
func (m *InMemoryRecorder) IncCacheInvalidation(entity string, keys int) {
	m.mu.Lock()
	c := m.entity(entity)
	c.Invalidations++
	c.InvalidatedKeys += uint64(keys)
	m.mu.Unlock()
}

// IncLinkCreated increments the link created counter.
func (m *InMemoryRecorder) IncLinkCreated() {
	atomic.AddUint64(&m.linksCreated, 1)
}

// IncLinkUpdated increments the link updated counter.
func (m *InMemoryRecorder) IncLinkUpdated() {
	atomic.AddUint64(&m.linksUpdated, 1)
}

// IncLinkDeleted increments the link deleted counter.
func (m *InMemoryRecorder) IncLinkDeleted() {
	atomic.AddUint64(&m.linksDeleted, 1)
}

// IncCategoryCreated increments the category created counter.
func (m *InMemoryRecorder) IncCategoryCreated() {
	atomic.AddUint64(&m.categoriesCreated, 1)
}

// IncCategoryUpdated increments the category updated counter.
func (m *InMemoryRecorder) IncCategoryUpdated() {
	atomic.AddUint64(&m.categoriesUpdated, 1)
}

// IncCategoryDeleted increments the category deleted counter.
func (m *InMemoryRecorder) IncCategoryDeleted() {
	atomic.AddUint64(&m.categoriesDeleted, 1)
}
