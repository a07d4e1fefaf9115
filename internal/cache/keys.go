package cache

import (
	"fmt"
	"strconv"
)

// Cache keys are prefix-structured: every link-listing key for one
// owner starts with LinksPrefix(owner), so a single wildcard delete
// covers all cached pages, filters, and search terms without
// enumerating them. Invalidation correctness depends on this layout.
//
// Link listings come in two mutually exclusive modes. Paginated browse
// keys encode page, limit, and category filter with a "search:none"
// sentinel. Search keys encode the raw term and category filter and
// drop pagination entirely, because search returns the complete match
// set in one response. Mixing the modes in one key shape would need
// double-encoding or a fallback; branching the format keeps both
// shapes total and collision-free.

// Sentinels for absent query parts.
const (
	allCategories = "all"
	noSearch      = "none"
)

// CategoryListKey is the single cached entry for an owner's category
// listing. Categories support no filters, so the owner id is the
// whole query shape.
func CategoryListKey(ownerID int64) string {
	return fmt.Sprintf("categories:user:%d", ownerID)
}

// CategoryKey caches one category-by-id read, scoped to its owner.
func CategoryKey(ownerID, categoryID int64) string {
	return fmt.Sprintf("category:%d:user:%d", categoryID, ownerID)
}

// LinksPrefix is the shared leading portion of every link-listing key
// for one owner. Keep this the single source of truth for both key
// construction and wildcard invalidation.
func LinksPrefix(ownerID int64) string {
	return fmt.Sprintf("links:user:%d:", ownerID)
}

// LinkListKey derives the key for a paginated browse query.
func LinkListKey(ownerID int64, page, limit int, categoryID *int64) string {
	return fmt.Sprintf("%spage:%d:limit:%d:cat:%s:search:%s",
		LinksPrefix(ownerID), page, limit, categoryFilter(categoryID), noSearch)
}

// LinkSearchKey derives the key for an unpaginated search query.
func LinkSearchKey(ownerID int64, term string, categoryID *int64) string {
	return fmt.Sprintf("%ssearch:%s:cat:%s",
		LinksPrefix(ownerID), term, categoryFilter(categoryID))
}

func categoryFilter(categoryID *int64) string {
	if categoryID == nil {
		return allCategories
	}
	return strconv.FormatInt(*categoryID, 10)
}
