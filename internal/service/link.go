// Package service provides business logic for the application: the
// cache-first query engine and the entity services orchestrating
// validation, record-store mutations, and cache invalidation.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/linkstash/linkstash/internal/apperr"
	"github.com/linkstash/linkstash/internal/cache"
	"github.com/linkstash/linkstash/internal/metrics"
	"github.com/linkstash/linkstash/internal/model"
	"github.com/linkstash/linkstash/internal/repository"
)

// Listing bounds and defaults.
const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	maxTitleLength = 256

	// DefaultLinkTTL is the cache TTL for link listings.
	DefaultLinkTTL = 5 * time.Minute
)

// LinkStore is the record-store capability consumed by LinkService.
type LinkStore interface {
	GetLink(ctx context.Context, ownerID, id int64) (*model.Link, error)
	ListLinks(ctx context.Context, filter repository.LinkFilter, limit, offset int) ([]model.LinkWithCategory, error)
	CountLinks(ctx context.Context, filter repository.LinkFilter) (int, error)
	CreateLink(ctx context.Context, link *model.Link) error
	UpdateLink(ctx context.Context, link *model.Link) error
	DeleteLink(ctx context.Context, ownerID, id int64) error
	GetCategory(ctx context.Context, ownerID, id int64) (*model.Category, error)
}

// LinkService handles link business logic.
type LinkService struct {
	store       LinkStore
	cache       cache.Store
	invalidator *cache.Invalidator
	metrics     metrics.Recorder
	logger      *slog.Logger
	ttl         time.Duration
}

// NewLinkService creates a new LinkService.
func NewLinkService(store LinkStore, cacheStore cache.Store, invalidator *cache.Invalidator, recorder metrics.Recorder, logger *slog.Logger, ttl time.Duration) *LinkService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &LinkService{
		store:       store,
		cache:       cacheStore,
		invalidator: invalidator,
		metrics:     recorder,
		logger:      logger,
		ttl:         ttl,
	}
}

// ListLinksInput defines input for listing links. Zero Page/Limit get
// defaults; a non-empty Search switches the listing into search mode.
type ListLinksInput struct {
	Page       int
	Limit      int
	CategoryID *int64
	Search     string
}

// List retrieves a link listing for an owner, cache-first.
//
// Two mutually exclusive modes: paginated browse, or unpaginated
// search returning the complete match set. The cache never changes
// what is returned, only whether the record store is consulted.
func (s *LinkService) List(ctx context.Context, ownerID int64, input ListLinksInput) (*model.LinkPage, error) {
	page := input.Page
	if page == 0 {
		page = defaultPage
	}
	limit := input.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	if page < 1 {
		return nil, apperr.Validation("Page must be at least 1")
	}
	if limit < 1 || limit > maxLimit {
		return nil, apperr.Validation(fmt.Sprintf("Limit must be between 1 and %d", maxLimit))
	}

	search := strings.TrimSpace(input.Search)
	searchMode := search != ""

	var key string
	if searchMode {
		key = cache.LinkSearchKey(ownerID, search, input.CategoryID)
	} else {
		key = cache.LinkListKey(ownerID, page, limit, input.CategoryID)
	}

	var cached model.LinkPage
	if s.getCached(ctx, cache.EntityLinks, key, &cached) {
		return &cached, nil
	}

	filter := repository.LinkFilter{
		OwnerID:    ownerID,
		CategoryID: input.CategoryID,
		Search:     search,
	}

	total, err := s.store.CountLinks(ctx, filter)
	if err != nil {
		return nil, err
	}

	var result model.LinkPage
	if searchMode {
		rows, err := s.store.ListLinks(ctx, filter, 0, 0)
		if err != nil {
			return nil, err
		}
		result = model.LinkPage{Data: rows, Pagination: model.SearchPagination(total)}
	} else {
		rows, err := s.store.ListLinks(ctx, filter, limit, (page-1)*limit)
		if err != nil {
			return nil, err
		}
		result = model.LinkPage{Data: rows, Pagination: model.NewPagination(page, limit, total)}
	}

	s.setCached(ctx, cache.EntityLinks, key, &result, s.ttl)

	return &result, nil
}

// CreateLinkInput defines input for creating a link.
type CreateLinkInput struct {
	Title       string
	URL         string
	Description *string
	CategoryID  *int64
}

// Create validates input, checks the category reference, inserts the
// link, and invalidates the owner's cached listings.
func (s *LinkService) Create(ctx context.Context, ownerID int64, input CreateLinkInput) (*model.Link, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperr.Validation("Link title is required")
	}
	if len(title) > maxTitleLength {
		return nil, apperr.Validation(fmt.Sprintf("Link title cannot exceed %d characters", maxTitleLength))
	}

	rawURL := strings.TrimSpace(input.URL)
	if rawURL == "" {
		return nil, apperr.Validation("Link URL is required")
	}
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if err := s.checkCategoryRef(ctx, ownerID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	link := &model.Link{
		Title:       title,
		URL:         rawURL,
		Description: input.Description,
		UserID:      ownerID,
		CategoryID:  input.CategoryID,
	}

	if err := s.store.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	s.invalidator.OnLinkMutation(ctx, ownerID)
	s.metrics.IncLinkCreated()

	return link, nil
}

// UpdateLinkInput defines input for updating a link. Nil fields are
// left unchanged; ClearCategory detaches the link from its category.
type UpdateLinkInput struct {
	Title         string
	URL           string
	Description   *string
	CategoryID    *int64
	ClearCategory bool
}

// Update applies a partial update to a link owned by ownerID.
func (s *LinkService) Update(ctx context.Context, ownerID, id int64, input UpdateLinkInput) (*model.Link, error) {
	link, err := s.store.GetLink(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, apperr.NotFound("Link not found")
		}
		return nil, err
	}

	if input.Title != "" {
		title := strings.TrimSpace(input.Title)
		if title == "" {
			return nil, apperr.Validation("Link title cannot be empty")
		}
		if len(title) > maxTitleLength {
			return nil, apperr.Validation(fmt.Sprintf("Link title cannot exceed %d characters", maxTitleLength))
		}
		link.Title = title
	}

	if input.URL != "" {
		rawURL := strings.TrimSpace(input.URL)
		if err := validateURL(rawURL); err != nil {
			return nil, err
		}
		link.URL = rawURL
	}

	if input.Description != nil {
		link.Description = input.Description
	}

	switch {
	case input.ClearCategory:
		link.CategoryID = nil
	case input.CategoryID != nil:
		if err := s.checkCategoryRef(ctx, ownerID, *input.CategoryID); err != nil {
			return nil, err
		}
		link.CategoryID = input.CategoryID
	}

	if err := s.store.UpdateLink(ctx, link); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, apperr.NotFound("Link not found")
		}
		return nil, err
	}

	s.invalidator.OnLinkMutation(ctx, ownerID)
	s.metrics.IncLinkUpdated()

	return link, nil
}

// Delete removes a link owned by ownerID and invalidates the owner's
// cached listings.
func (s *LinkService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteLink(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return apperr.NotFound("Link not found")
		}
		return err
	}

	s.invalidator.OnLinkMutation(ctx, ownerID)
	s.metrics.IncLinkDeleted()

	return nil
}

// checkCategoryRef verifies a referenced category exists and belongs
// to the owner. A foreign or absent category is a validation failure
// on the link payload, not a not-found on the link.
func (s *LinkService) checkCategoryRef(ctx context.Context, ownerID, categoryID int64) error {
	_, err := s.store.GetCategory(ctx, ownerID, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return apperr.Validation("Category not found or does not belong to you")
		}
		return err
	}
	return nil
}

// validateURL rejects URLs without a scheme and host.
func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return apperr.Validation("The provided URL is invalid")
	}
	return nil
}

// getCached loads and decodes a cached envelope. Any cache failure,
// including a malformed payload, degrades to a record-store read and
// is never surfaced to the caller.
func (s *LinkService) getCached(ctx context.Context, entity, key string, dest any) bool {
	return getCached(ctx, s.cache, s.metrics, s.logger, entity, key, dest)
}

// setCached stores an envelope after a record-store read. Exactly one
// cache-set per miss; failures only cost future latency.
func (s *LinkService) setCached(ctx context.Context, entity, key string, value any, ttl time.Duration) {
	setCached(ctx, s.cache, s.metrics, s.logger, entity, key, value, ttl)
}

func getCached(ctx context.Context, store cache.Store, recorder metrics.Recorder, logger *slog.Logger, entity, key string, dest any) bool {
	data, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		recorder.IncCacheMiss(entity)
		logger.Debug("cache miss", slog.String("key", key))
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warn("malformed cache payload", slog.String("key", key), slog.String("error", err.Error()))
		recorder.IncCacheMiss(entity)
		return false
	}

	recorder.IncCacheHit(entity)
	logger.Debug("cache hit", slog.String("key", key))
	return true
}

func setCached(ctx context.Context, store cache.Store, recorder metrics.Recorder, logger *slog.Logger, entity, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}

	if err := store.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}

	recorder.IncCacheSet(entity)
	logger.Debug("cache set", slog.String("key", key), slog.Duration("ttl", ttl))
}
