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

// compile-time check that *DB implements repository.LanguageRepository
var _ repository.LanguageRepository = (*DB)(nil)

// CreateLanguage inserts a new language. The lower-cased name_key is
// written alongside the display name so later lookups can be
// case-insensitive without a scan or a regex.
func (db *DB) CreateLanguage(ctx context.Context, language *model.Language) error {
	language.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO languages (id, name, name_key, color, snippets)
		 VALUES (?, ?, ?, ?, ?)`,
		language.ID,
		language.Name,
		strings.ToLower(language.Name),
		language.Color,
		language.Snippets,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating language %q: %w", language.Name, err)
	}

	return nil
}

// GetLanguageByID retrieves a language by id.
// Returns apperror.ErrNotFound when no row matches.
func (db *DB) GetLanguageByID(ctx context.Context, id string) (*model.Language, error) {
	return db.getLanguage(ctx, `WHERE id = ?`, id)
}

// GetLanguageByName retrieves a language by name, ignoring case. The
// comparison is a full-string match on the normalized key — "python",
// "Python", and "PYTHON" all resolve the same row, but "pyth" never
// matches anything.
func (db *DB) GetLanguageByName(ctx context.Context, name string) (*model.Language, error) {
	return db.getLanguage(ctx, `WHERE name_key = ?`, strings.ToLower(name))
}

func (db *DB) getLanguage(ctx context.Context, where string, arg any) (*model.Language, error) {
	var l model.Language

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, color, snippets FROM languages `+where,
		arg,
	).Scan(&l.ID, &l.Name, &l.Color, &l.Snippets)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Language")
		}
		return nil, fmt.Errorf("sqlite: getting language: %w", err)
	}

	return &l, nil
}

// ListLanguages returns all languages in insertion (id) order.
func (db *DB) ListLanguages(ctx context.Context) ([]model.Language, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, color, snippets FROM languages ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing languages: %w", err)
	}
	defer rows.Close()

	languages := make([]model.Language, 0)
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.Snippets); err != nil {
			return nil, fmt.Errorf("sqlite: scanning language row: %w", err)
		}
		languages = append(languages, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating languages: %w", err)
	}

	return languages, nil
}

// UpdateLanguage writes the (already merged) language back, refreshing
// the lookup key to follow any rename. RowsAffected distinguishes a
// vanished row from a successful no-change write.
func (db *DB) UpdateLanguage(ctx context.Context, language *model.Language) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE languages SET name = ?, name_key = ?, color = ?, snippets = ?
		 WHERE id = ?`,
		language.Name,
		strings.ToLower(language.Name),
		language.Color,
		language.Snippets,
		language.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating language %s: %w", language.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Language")
	}

	return nil
}

// DeleteLanguage removes a language row. Its categories and snippets are
// NOT touched — they become orphans, unreachable through name-scoped
// listings. That matches the product's current behavior.
func (db *DB) DeleteLanguage(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM languages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting language %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Language")
	}

	return nil
}

// CountLanguages returns the total number of languages.
func (db *DB) CountLanguages(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM languages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting languages: %w", err)
	}
	return n, nil
}
