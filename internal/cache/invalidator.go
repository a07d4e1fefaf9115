package cache

import (
	"context"
	"log/slog"

	"github.com/linkstash/linkstash/internal/metrics"
)

// Invalidator deletes cached reads made stale by a mutation. Deletes
// run synchronously before the mutation's response is returned, but
// are best-effort: a failed delete is logged and never fails the
// mutation. The record store is the durable fact; a surviving stale
// entry is bounded by its TTL.
type Invalidator struct {
	store   Store
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewInvalidator creates an Invalidator.
func NewInvalidator(store Store, logger *slog.Logger, recorder metrics.Recorder) *Invalidator {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Invalidator{
		store:   store,
		logger:  logger,
		metrics: recorder,
	}
}

// OnLinkMutation wipes every cached link listing for the owner.
// The full prefix wipe trades precision for correctness: computing
// exactly which pages and search terms one row change affects would
// mean re-deriving the whole key space and risks missing keys.
func (i *Invalidator) OnLinkMutation(ctx context.Context, ownerID int64) {
	i.deletePrefix(ctx, EntityLinks, LinksPrefix(ownerID))
}

// OnCategoryCreated drops only the owner's category listing. A new
// category cannot appear in any previously cached per-id lookup, and
// no existing link references it yet.
func (i *Invalidator) OnCategoryCreated(ctx context.Context, ownerID int64) {
	i.delete(ctx, EntityCategories, CategoryListKey(ownerID))
}

// OnCategoryChanged covers update and delete: the listing, the per-id
// entry, and every link listing for the owner. Link listings embed the
// category name, and a delete nulls the category reference on links,
// changing which links match a category filter.
func (i *Invalidator) OnCategoryChanged(ctx context.Context, ownerID, categoryID int64) {
	i.delete(ctx, EntityCategories, CategoryListKey(ownerID), CategoryKey(ownerID, categoryID))
	i.deletePrefix(ctx, EntityLinks, LinksPrefix(ownerID))
}

// OnUserDeleted wipes the owner's listings after account deletion.
// Per-id category entries are keyed by category id first and cannot be
// prefix-matched by owner; they are unreachable once the account is
// gone and expire by TTL.
func (i *Invalidator) OnUserDeleted(ctx context.Context, ownerID int64) {
	i.delete(ctx, EntityCategories, CategoryListKey(ownerID))
	i.deletePrefix(ctx, EntityLinks, LinksPrefix(ownerID))
}

func (i *Invalidator) delete(ctx context.Context, entity string, keys ...string) {
	if err := i.store.Delete(ctx, keys...); err != nil {
		i.logger.Warn("cache invalidation failed",
			slog.String("entity", entity),
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
		return
	}
	i.metrics.IncCacheInvalidation(entity, len(keys))
	i.logger.Debug("cache invalidated",
		slog.String("entity", entity),
		slog.Int("keys", len(keys)),
	)
}

func (i *Invalidator) deletePrefix(ctx context.Context, entity, prefix string) {
	deleted, err := i.store.DeletePrefix(ctx, prefix)
	if err != nil {
		i.logger.Warn("cache invalidation failed",
			slog.String("entity", entity),
			slog.String("prefix", prefix),
			slog.String("error", err.Error()),
		)
		return
	}
	i.metrics.IncCacheInvalidation(entity, deleted)
	i.logger.Debug("cache invalidated",
		slog.String("entity", entity),
		slog.String("prefix", prefix),
		slog.Int("keys", deleted),
	)
}
