package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linkstash/linkstash/internal/apperr"
	"github.com/linkstash/linkstash/internal/cache"
	"github.com/linkstash/linkstash/internal/metrics"
	"github.com/linkstash/linkstash/internal/model"
	"github.com/linkstash/linkstash/internal/repository"
)

const (
	maxCategoryNameLength = 256

	// DefaultCategoryTTL is the cache TTL for category reads. Category
	// data churns slower than link listings, so it lives longer.
	DefaultCategoryTTL = 10 * time.Minute
)

// CategoryStore is the record-store capability consumed by
// CategoryService.
type CategoryStore interface {
	ListCategories(ctx context.Context, ownerID int64) ([]model.Category, error)
	GetCategory(ctx context.Context, ownerID, id int64) (*model.Category, error)
	ListCategoryLinks(ctx context.Context, ownerID, categoryID int64) ([]model.CategoryLink, error)
	CreateCategory(ctx context.Context, ownerID int64, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id int64, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id int64) error
}

// CategoryService handles category business logic.
type CategoryService struct {
	store       CategoryStore
	cache       cache.Store
	invalidator *cache.Invalidator
	metrics     metrics.Recorder
	logger      *slog.Logger
	ttl         time.Duration
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store CategoryStore, cacheStore cache.Store, invalidator *cache.Invalidator, recorder metrics.Recorder, logger *slog.Logger, ttl time.Duration) *CategoryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if ttl <= 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryService{
		store:       store,
		cache:       cacheStore,
		invalidator: invalidator,
		metrics:     recorder,
		logger:      logger,
		ttl:         ttl,
	}
}

// List retrieves all of an owner's categories ordered by name,
// cache-first.
func (s *CategoryService) List(ctx context.Context, ownerID int64) ([]model.Category, error) {
	key := cache.CategoryListKey(ownerID)

	var cached []model.Category
	if getCached(ctx, s.cache, s.metrics, s.logger, cache.EntityCategories, key, &cached) {
		return cached, nil
	}

	categories, err := s.store.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	setCached(ctx, s.cache, s.metrics, s.logger, cache.EntityCategories, key, categories, s.ttl)

	return categories, nil
}

// Get retrieves one category with its links, cache-first. Only
// successful lookups are cached: absence may be transient relative to
// a future create, so NotFound re-checks the record store every time.
func (s *CategoryService) Get(ctx context.Context, ownerID, id int64) (*model.CategoryWithLinks, error) {
	key := cache.CategoryKey(ownerID, id)

	var cached model.CategoryWithLinks
	if getCached(ctx, s.cache, s.metrics, s.logger, cache.EntityCategories, key, &cached) {
		return &cached, nil
	}

	category, err := s.store.GetCategory(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, apperr.NotFound("Category not found")
		}
		return nil, err
	}

	links, err := s.store.ListCategoryLinks(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	result := &model.CategoryWithLinks{Category: *category, Links: links}

	setCached(ctx, s.cache, s.metrics, s.logger, cache.EntityCategories, key, result, s.ttl)

	return result, nil
}

// Create adds a category for the owner. Duplicate names surface as a
// conflict from the store-level constraint.
func (s *CategoryService) Create(ctx context.Context, ownerID int64, name string) (*model.Category, error) {
	name, err := validCategoryName(name)
	if err != nil {
		return nil, err
	}

	category, err := s.store.CreateCategory(ctx, ownerID, name)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return nil, apperr.Conflict("You already have a category with this name")
		}
		return nil, err
	}

	s.invalidator.OnCategoryCreated(ctx, ownerID)
	s.metrics.IncCategoryCreated()

	return category, nil
}

// Update renames a category owned by ownerID.
func (s *CategoryService) Update(ctx context.Context, ownerID, id int64, name string) (*model.Category, error) {
	name, err := validCategoryName(name)
	if err != nil {
		return nil, err
	}

	category, err := s.store.UpdateCategory(ctx, ownerID, id, name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, apperr.NotFound("Category not found")
		case errors.Is(err, repository.ErrCategoryNameTaken):
			return nil, apperr.Conflict("You already have a category with this name")
		}
		return nil, err
	}

	s.invalidator.OnCategoryChanged(ctx, ownerID, id)
	s.metrics.IncCategoryUpdated()

	return category, nil
}

// Delete removes a category owned by ownerID. Its links survive with
// a cleared category reference, which is why the owner's link
// listings are invalidated along with the category entries.
func (s *CategoryService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteCategory(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return apperr.NotFound("Category not found")
		}
		return err
	}

	s.invalidator.OnCategoryChanged(ctx, ownerID, id)
	s.metrics.IncCategoryDeleted()

	return nil
}

func validCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("Category name is required")
	}
	if len(name) > maxCategoryNameLength {
		return "", apperr.Validation(fmt.Sprintf("Category name cannot exceed %d characters", maxCategoryNameLength))
	}
	return name, nil
}
