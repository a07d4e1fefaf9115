package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/linkstash/linkstash/internal/model"
)

// Common errors for link repository operations.
var (
	ErrLinkNotFound = errors.New("link not found")
)

// LinkFilter defines the filter shared by listing and counting.
// Search matches a case-insensitive substring against title or
// description.
type LinkFilter struct {
	OwnerID    int64
	CategoryID *int64
	Search     string
}

// whereClause builds the WHERE fragment and args for a link filter.
func (f LinkFilter) whereClause() (string, []any) {
	clause := " WHERE l.user_id = $1"
	args := []any{f.OwnerID}
	argIndex := 2

	if f.CategoryID != nil {
		clause += fmt.Sprintf(" AND l.category_id = $%d", argIndex)
		args = append(args, *f.CategoryID)
		argIndex++
	}

	if f.Search != "" {
		clause += fmt.Sprintf(" AND (l.title ILIKE $%d OR l.description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+f.Search+"%")
		argIndex++
	}

	return clause, args
}

// CountLinks counts the rows matching the filter.
func (r *Repository) CountLinks(ctx context.Context, filter LinkFilter) (int, error) {
	clause, args := filter.whereClause()
	query := `SELECT COUNT(*) FROM links l` + clause

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}

	return total, nil
}

// ListLinks retrieves the rows matching the filter with the joined
// category name, ordered by descending id (newest first; ids are
// unique so the order is total). A limit below 1 returns the full
// match set, which is how search mode reads.
func (r *Repository) ListLinks(ctx context.Context, filter LinkFilter, limit, offset int) ([]model.LinkWithCategory, error) {
	clause, args := filter.whereClause()

	query := `
		SELECT l.id, l.title, l.url, l.description, l.user_id, l.category_id, c.name
		FROM links l
		LEFT JOIN categories c ON c.id = l.category_id` + clause + `
		ORDER BY l.id DESC`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]model.LinkWithCategory, 0)
	for rows.Next() {
		var l model.LinkWithCategory
		err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.Description, &l.UserID, &l.CategoryID, &l.CategoryName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// GetLink retrieves one link scoped to its owner. A link owned by
// someone else reports ErrLinkNotFound, same as an absent one.
func (r *Repository) GetLink(ctx context.Context, ownerID, id int64) (*model.Link, error) {
	query := `
		SELECT id, title, url, description, user_id, category_id
		FROM links
		WHERE id = $1 AND user_id = $2
	`

	var l model.Link
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&l.ID, &l.Title, &l.URL, &l.Description, &l.UserID, &l.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &l, nil
}

// CreateLink inserts a new link and fills in the assigned id.
func (r *Repository) CreateLink(ctx context.Context, link *model.Link) error {
	query := `
		INSERT INTO links (title, url, description, user_id, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		link.Title,
		link.URL,
		link.Description,
		link.UserID,
		link.CategoryID,
	).Scan(&link.ID)
	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// UpdateLink updates a link's mutable fields, scoped to its owner.
func (r *Repository) UpdateLink(ctx context.Context, link *model.Link) error {
	query := `
		UPDATE links
		SET title = $3, url = $4, description = $5, category_id = $6
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		link.ID,
		link.UserID,
		link.Title,
		link.URL,
		link.Description,
		link.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// DeleteLink removes a link scoped to its owner.
func (r *Repository) DeleteLink(ctx context.Context, ownerID, id int64) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM links WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}
