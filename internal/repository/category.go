package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/linkstash/linkstash/internal/model"
)

// Common errors for category repository operations.
var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name already taken")
)

// ListCategories retrieves all categories for an owner, ordered by name.
func (r *Repository) ListCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	query := `
		SELECT id, name, user_id
		FROM categories
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetCategory retrieves one category scoped to its owner. A category
// owned by someone else reports ErrCategoryNotFound, same as an absent
// one.
func (r *Repository) GetCategory(ctx context.Context, ownerID, id int64) (*model.Category, error) {
	query := `
		SELECT id, name, user_id
		FROM categories
		WHERE id = $1 AND user_id = $2
	`

	var c model.Category
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(&c.ID, &c.Name, &c.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &c, nil
}

// ListCategoryLinks retrieves the links referencing a category, scoped
// to the owner.
func (r *Repository) ListCategoryLinks(ctx context.Context, ownerID, categoryID int64) ([]model.CategoryLink, error) {
	query := `
		SELECT id, title, url, description
		FROM links
		WHERE category_id = $1 AND user_id = $2
	`

	rows, err := r.pool.Query(ctx, query, categoryID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category links: %w", err)
	}
	defer rows.Close()

	links := make([]model.CategoryLink, 0)
	for rows.Next() {
		var l model.CategoryLink
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category link: %w", err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category links: %w", err)
	}

	return links, nil
}

// CreateCategory inserts a new category. The per-owner unique
// constraint turns concurrent duplicate creates into
// ErrCategoryNameTaken rather than duplicate rows.
func (r *Repository) CreateCategory(ctx context.Context, ownerID int64, name string) (*model.Category, error) {
	query := `
		INSERT INTO categories (name, user_id)
		VALUES ($1, $2)
		RETURNING id
	`

	c := &model.Category{Name: name, UserID: ownerID}
	err := r.pool.QueryRow(ctx, query, name, ownerID).Scan(&c.ID)
	if err != nil {
		if uniqueViolation(err, "categories_user_id_name_key") {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return c, nil
}

// UpdateCategory renames a category scoped to its owner.
func (r *Repository) UpdateCategory(ctx context.Context, ownerID, id int64, name string) (*model.Category, error) {
	query := `
		UPDATE categories
		SET name = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, name, user_id
	`

	var c model.Category
	err := r.pool.QueryRow(ctx, query, id, ownerID, name).Scan(&c.ID, &c.Name, &c.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		if uniqueViolation(err, "categories_user_id_name_key") {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &c, nil
}

// DeleteCategory removes a category scoped to its owner. Links
// referencing it get a NULL category_id via the FK action; they are
// never deleted.
func (r *Repository) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
