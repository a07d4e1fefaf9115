// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
// The cache layer reports hit/miss/set/invalidation events through
// this interface; it stays silent when wired to the noop recorder.
type Recorder interface {
	// Cache events, labeled by entity kind ("links" or "categories")
	IncCacheHit(entity string)
	IncCacheMiss(entity string)
	IncCacheSet(entity string)
	IncCacheInvalidation(entity string, keys int)

	// Mutation counters
	IncLinkCreated()
	IncLinkUpdated()
	IncLinkDeleted()
	IncCategoryCreated()
	IncCategoryUpdated()
	IncCategoryDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
