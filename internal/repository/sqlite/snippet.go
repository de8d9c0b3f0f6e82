package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
	"github.com/sakif/snippet-catalog/internal/repository"
)

// compile-time check that *DB implements repository.SnippetRepository
var _ repository.SnippetRepository = (*DB)(nil)

// snippetSelect joins both parents so reads carry current display names.
// LEFT JOINs keep orphans readable by id with empty parent names.
const snippetSelect = `
	SELECT s.id, s.title, s.description, s.code,
	       s.language_id, COALESCE(l.name, ''),
	       s.category_id, COALESCE(c.name, ''),
	       s.preview_image, s.demo_link, s.views, s.created_at, s.updated_at
	FROM snippets s
	LEFT JOIN languages l ON l.id = s.language_id
	LEFT JOIN categories c ON c.id = s.category_id`

// CreateSnippet inserts a new snippet. The service layer has already
// resolved and validated both parents; LanguageID and CategoryID are
// trusted to be mutually consistent at this point.
func (db *DB) CreateSnippet(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()

	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets
		   (id, title, description, code, language_id, category_id,
		    preview_image, demo_link, views, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Description,
		snippet.Code,
		snippet.LanguageID,
		snippet.CategoryID,
		snippet.PreviewImage,
		snippet.DemoLink,
		snippet.Views,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet %q: %w", snippet.Title, err)
	}

	return nil
}

// GetSnippetByID retrieves a single snippet by id.
func (db *DB) GetSnippetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var s model.Snippet

	err := db.conn.QueryRowContext(ctx, snippetSelect+` WHERE s.id = ?`, id).Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.Code,
		&s.LanguageID,
		&s.LanguageName,
		&s.CategoryID,
		&s.CategoryName,
		&s.PreviewImage,
		&s.DemoLink,
		&s.Views,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Snippet")
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &s, nil
}

// ListSnippetsByCategory returns all snippets under one category, newest
// first.
func (db *DB) ListSnippetsByCategory(ctx context.Context, categoryID string) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		snippetSelect+` WHERE s.category_id = ? ORDER BY s.created_at DESC`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0)
	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.Code,
			&s.LanguageID, &s.LanguageName,
			&s.CategoryID, &s.CategoryName,
			&s.PreviewImage, &s.DemoLink, &s.Views, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// UpdateSnippet writes the merged snippet back. updated_at is always
// refreshed, even when the merge changed nothing — a no-op update to an
// existing row is a benign success. id, parents, and created_at stay
// immutable.
func (db *DB) UpdateSnippet(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, description = ?, code = ?, preview_image = ?,
		     demo_link = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Description,
		snippet.Code,
		snippet.PreviewImage,
		snippet.DemoLink,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Snippet")
	}

	return nil
}

// DeleteSnippet removes a snippet by id.
func (db *DB) DeleteSnippet(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Snippet")
	}

	return nil
}

// IncrementSnippetViews bumps the view counter by one. A miss is not an
// error — the snippet may have been deleted between read and increment,
// and the counter is best-effort anyway.
func (db *DB) IncrementSnippetViews(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE snippets SET views = views + 1 WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: incrementing views for snippet %s: %w", id, err)
	}
	return nil
}

// CountSnippets returns the total number of snippets.
func (db *DB) CountSnippets(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM snippets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting snippets: %w", err)
	}
	return n, nil
}
