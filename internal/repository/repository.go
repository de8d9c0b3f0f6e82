// Package repository declares the persistence interfaces the service
// layer programs against. The concrete implementation lives in
// repository/sqlite; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/snippet-catalog/internal/model"
)

// UserRepository persists user accounts. Users are never deleted through
// the API, so no Delete is declared.
type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict when
	// the username or email is already taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.UserSummary, error)
	CountUsers(ctx context.Context) (int64, error)
}

// LanguageRepository persists the catalog roots.
//
// GetLanguageByName matches the full name ignoring case — an anchored
// exact match, never a substring search.
type LanguageRepository interface {
	CreateLanguage(ctx context.Context, language *model.Language) error
	GetLanguageByID(ctx context.Context, id string) (*model.Language, error)
	GetLanguageByName(ctx context.Context, name string) (*model.Language, error)
	ListLanguages(ctx context.Context) ([]model.Language, error)
	UpdateLanguage(ctx context.Context, language *model.Language) error
	DeleteLanguage(ctx context.Context, id string) error
	CountLanguages(ctx context.Context) (int64, error)
}

// CategoryRepository persists categories. Name lookup is scoped to a
// language: the same category name may exist under different languages.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, languageID, name string) (*model.Category, error)
	ListCategoriesByLanguage(ctx context.Context, languageID string) ([]model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	// PopularCategories joins each category with its language, counts its
	// snippets, and returns the top `limit` by that count, descending.
	PopularCategories(ctx context.Context, limit int) ([]model.PopularCategory, error)
}

// SnippetRepository persists snippets.
type SnippetRepository interface {
	CreateSnippet(ctx context.Context, snippet *model.Snippet) error
	GetSnippetByID(ctx context.Context, id string) (*model.Snippet, error)
	ListSnippetsByCategory(ctx context.Context, categoryID string) ([]model.Snippet, error)
	UpdateSnippet(ctx context.Context, snippet *model.Snippet) error
	DeleteSnippet(ctx context.Context, id string) error
	// IncrementSnippetViews bumps the view counter. Best-effort: callers
	// may run it detached from the request and ignore the error.
	IncrementSnippetViews(ctx context.Context, id string) error
	CountSnippets(ctx context.Context) (int64, error)
}
