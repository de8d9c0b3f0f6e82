package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
	"github.com/sakif/snippet-catalog/internal/repository"
)

// compile-time check that *DB implements repository.CategoryRepository
var _ repository.CategoryRepository = (*DB)(nil)

// categorySelect joins the parent language so every read carries the
// current language name. LEFT JOIN keeps orphaned categories readable by
// id (their LanguageName comes back empty).
const categorySelect = `
	SELECT c.id, c.name, c.description, c.language_id, COALESCE(l.name, '')
	FROM categories c
	LEFT JOIN languages l ON l.id = c.language_id`

// CreateCategory inserts a new category under category.LanguageID.
// The caller (service layer) has already verified the language exists.
func (db *DB) CreateCategory(ctx context.Context, category *model.Category) error {
	category.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, name_key, description, language_id)
		 VALUES (?, ?, ?, ?, ?)`,
		category.ID,
		category.Name,
		strings.ToLower(category.Name),
		category.Description,
		category.LanguageID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating category %q: %w", category.Name, err)
	}

	return nil
}

// GetCategoryByID retrieves a category by id.
func (db *DB) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	return db.getCategory(ctx, ` WHERE c.id = ?`, id)
}

// GetCategoryByName retrieves a category by name (case-insensitive full
// match) scoped to a single language. The scoping matters: "Homepage"
// exists under several languages and each is a distinct row.
func (db *DB) GetCategoryByName(ctx context.Context, languageID, name string) (*model.Category, error) {
	return db.getCategory(ctx,
		` WHERE c.language_id = ? AND c.name_key = ?`,
		languageID, strings.ToLower(name),
	)
}

func (db *DB) getCategory(ctx context.Context, where string, args ...any) (*model.Category, error) {
	var c model.Category

	err := db.conn.QueryRowContext(ctx, categorySelect+where, args...).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.LanguageID,
		&c.LanguageName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Category")
		}
		return nil, fmt.Errorf("sqlite: getting category: %w", err)
	}

	return &c, nil
}

// ListCategoriesByLanguage returns all categories under one language.
func (db *DB) ListCategoriesByLanguage(ctx context.Context, languageID string) ([]model.Category, error) {
	rows, err := db.conn.QueryContext(ctx,
		categorySelect+` WHERE c.language_id = ? ORDER BY c.id`,
		languageID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.LanguageID, &c.LanguageName); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory writes the merged category back, refreshing name_key.
func (db *DB) UpdateCategory(ctx context.Context, category *model.Category) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE categories SET name = ?, name_key = ?, description = ?
		 WHERE id = ?`,
		category.Name,
		strings.ToLower(category.Name),
		category.Description,
		category.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating category %s: %w", category.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Category")
	}

	return nil
}

// DeleteCategory removes a category row, orphaning its snippets (no
// cascade, same policy as DeleteLanguage).
func (db *DB) DeleteCategory(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Category")
	}

	return nil
}

// PopularCategories is the one cross-collection aggregate: every
// category joined with its language and its live snippet count, ordered
// by that count descending, truncated to limit.
//
// The count is computed from the snippet rows themselves, not from the
// advisory counter on the language.
func (db *DB) PopularCategories(ctx context.Context, limit int) ([]model.PopularCategory, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.name, c.description,
		       COALESCE(l.name, '') AS language_name,
		       COUNT(s.id) AS snippet_count
		FROM categories c
		LEFT JOIN languages l ON l.id = c.language_id
		LEFT JOIN snippets s ON s.category_id = c.id
		GROUP BY c.id, c.name, c.description, l.name
		ORDER BY snippet_count DESC, c.id
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying popular categories: %w", err)
	}
	defer rows.Close()

	popular := make([]model.PopularCategory, 0, limit)
	for rows.Next() {
		var p model.PopularCategory
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.LanguageName, &p.SnippetCount); err != nil {
			return nil, fmt.Errorf("sqlite: scanning popular category row: %w", err)
		}
		popular = append(popular, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating popular categories: %w", err)
	}

	return popular, nil
}
