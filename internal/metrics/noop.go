package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCacheHit is a no-op.
func (n *NoopRecorder) IncCacheHit(entity string) {}

// IncCacheMiss is a no-op.
func (n *NoopRecorder) IncCacheMiss(entity string) {}

// IncCacheSet is a no-op.
func (n *NoopRecorder) IncCacheSet(entity string) {}

// IncCacheInvalidation is a no-op.
func (n *NoopRecorder) IncCacheInvalidation(entity string, keys int) {}

// IncLinkCreated is a no-op.
func (n *NoopRecorder) IncLinkCreated() {}

// IncLinkUpdated is a no-op.
func (n *NoopRecorder) IncLinkUpdated() {}

// IncLinkDeleted is a no-op.
func (n *NoopRecorder) IncLinkDeleted() {}

// IncCategoryCreated is a no-op.
func (n *NoopRecorder) IncCategoryCreated() {}

// IncCategoryUpdated is a no-op.
func (n *NoopRecorder) IncCategoryUpdated() {}

// IncCategoryDeleted is a no-op.
func (n *NoopRecorder) IncCategoryDeleted() {}
