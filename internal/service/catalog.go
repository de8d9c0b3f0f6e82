package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
	"github.com/sakif/snippet-catalog/internal/repository"
)

// popularLimit is how many categories the popular aggregate returns.
const popularLimit = 4

// viewCountTimeout bounds the detached view-counter write so a stuck
// database cannot leak goroutines forever.
const viewCountTimeout = 5 * time.Second

// CatalogService owns the Language → Category → Snippet hierarchy rules.
//
// HIERARCHY VALIDATION:
// Every child operation resolves its ancestors top-down — language
// first, then category, then snippet — and short-circuits with NotFound
// at the first missing link. A child that exists but hangs off a
// different parent than the request named is an ownership mismatch, not
// a miss. The multi-step check is not transactional; a concurrent parent
// delete between steps is an accepted race.
type CatalogService struct {
	languages  repository.LanguageRepository
	categories repository.CategoryRepository
	snippets   repository.SnippetRepository
	users      repository.UserRepository // stats only
	logger     *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(
	languages repository.LanguageRepository,
	categories repository.CategoryRepository,
	snippets repository.SnippetRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		languages:  languages,
		categories: categories,
		snippets:   snippets,
		users:      users,
		logger:     logger,
	}
}

// ---------------------------------------------------------------------
// Languages
// ---------------------------------------------------------------------

// ListLanguages returns all languages.
func (s *CatalogService) ListLanguages(ctx context.Context) ([]model.Language, error) {
	languages, err := s.languages.ListLanguages(ctx)
	if err != nil {
		s.logger.Error("failed to list languages", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	return languages, nil
}

// CreateLanguage adds a new language with a zeroed snippet counter.
func (s *CatalogService) CreateLanguage(ctx context.Context, name, color string) (*model.Language, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "language name is required")
	}
	if strings.TrimSpace(color) == "" {
		return nil, apperror.ValidationFailed("color", "language color is required")
	}

	language := &model.Language{Name: name, Color: color, Snippets: 0}
	if err := s.languages.CreateLanguage(ctx, language); err != nil {
		s.logger.Error("failed to create language",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating language: %w", err)
	}

	s.logger.Info("language created",
		slog.String("id", language.ID),
		slog.String("name", language.Name),
	)
	return language, nil
}

// UpdateLanguage applies a partial update: only non-empty fields
// overwrite the stored values.
func (s *CatalogService) UpdateLanguage(ctx context.Context, id, name, color string) (*model.Language, error) {
	language, err := s.languages.GetLanguageByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		language.Name = name
	}
	if color = strings.TrimSpace(color); color != "" {
		language.Color = color
	}

	if err := s.languages.UpdateLanguage(ctx, language); err != nil {
		s.logger.Error("failed to update language",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating language: %w", err)
	}

	s.logger.Info("language updated", slog.String("id", id))
	return language, nil
}

// DeleteLanguage removes a language. Categories and snippets beneath it
// are left in place (no cascade) and become unreachable through the
// name-scoped listings.
func (s *CatalogService) DeleteLanguage(ctx context.Context, id string) error {
	if err := s.languages.DeleteLanguage(ctx, id); err != nil {
		return err
	}
	s.logger.Info("language deleted", slog.String("id", id))
	return nil
}

// ---------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------

// ListCategories resolves the language by name (any casing) and returns
// its categories. A missing language is a 404-level error, distinct from
// an existing language with zero categories.
func (s *CatalogService) ListCategories(ctx context.Context, languageName string) ([]model.Category, error) {
	language, err := s.languages.GetLanguageByName(ctx, languageName)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListCategoriesByLanguage(ctx, language.ID)
	if err != nil {
		s.logger.Error("failed to list categories",
			slog.String("language", language.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// CreateCategory adds a category under the named language.
func (s *CatalogService) CreateCategory(ctx context.Context, languageName, name, description string) (*model.Category, error) {
	language, err := s.languages.GetLanguageByName(ctx, languageName)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name is required")
	}

	category := &model.Category{
		Name:         name,
		Description:  strings.TrimSpace(description),
		LanguageID:   language.ID,
		LanguageName: language.Name,
	}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		s.logger.Error("failed to create category",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating category: %w", err)
	}

	s.logger.Info("category created",
		slog.String("id", category.ID),
		slog.String("name", category.Name),
		slog.String("language", language.Name),
	)
	return category, nil
}

// resolveCategoryByID resolves language (by name) then category (by id)
// and enforces that the category belongs to that language.
func (s *CatalogService) resolveCategoryByID(ctx context.Context, languageName, categoryID string) (*model.Language, *model.Category, error) {
	language, err := s.languages.GetLanguageByName(ctx, languageName)
	if err != nil {
		return nil, nil, err
	}

	category, err := s.categories.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}

	if category.LanguageID != language.ID {
		return nil, nil, apperror.OwnershipMismatch("Category does not belong to this language")
	}

	return language, category, nil
}

// UpdateCategory applies a partial update after hierarchy validation.
func (s *CatalogService) UpdateCategory(ctx context.Context, languageName, categoryID, name, description string) (*model.Category, error) {
	_, category, err := s.resolveCategoryByID(ctx, languageName, categoryID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		category.Name = name
	}
	if description = strings.TrimSpace(description); description != "" {
		category.Description = description
	}

	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		s.logger.Error("failed to update category",
			slog.String("id", categoryID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating category: %w", err)
	}

	s.logger.Info("category updated", slog.String("id", categoryID))
	return category, nil
}

// DeleteCategory removes a category after hierarchy validation. Its
// snippets are orphaned, not deleted.
func (s *CatalogService) DeleteCategory(ctx context.Context, languageName, categoryID string) error {
	if _, _, err := s.resolveCategoryByID(ctx, languageName, categoryID); err != nil {
		return err
	}

	if err := s.categories.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}

	s.logger.Info("category deleted", slog.String("id", categoryID))
	return nil
}

// PopularCategories returns the top categories by live snippet count.
func (s *CatalogService) PopularCategories(ctx context.Context) ([]model.PopularCategory, error) {
	popular, err := s.categories.PopularCategories(ctx, popularLimit)
	if err != nil {
		s.logger.Error("failed to query popular categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("querying popular categories: %w", err)
	}
	return popular, nil
}

// ---------------------------------------------------------------------
// Snippets
// ---------------------------------------------------------------------

// SnippetInput carries the caller-editable snippet fields. On update,
// empty fields mean "leave unchanged".
type SnippetInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Code         string `json:"code"`
	PreviewImage string `json:"previewImage"`
	DemoLink     string `json:"demoLink"`
}

// resolveCategoryByName resolves language then category, both by
// case-insensitive name, the category scoped to the language.
func (s *CatalogService) resolveCategoryByName(ctx context.Context, languageName, categoryName string) (*model.Language, *model.Category, error) {
	language, err := s.languages.GetLanguageByName(ctx, languageName)
	if err != nil {
		return nil, nil, err
	}

	category, err := s.categories.GetCategoryByName(ctx, language.ID, categoryName)
	if err != nil {
		return nil, nil, err
	}

	return language, category, nil
}

// ListSnippets returns the snippets under (language, category), with
// 404-level errors at whichever hierarchy level fails first.
func (s *CatalogService) ListSnippets(ctx context.Context, languageName, categoryName string) ([]model.Snippet, error) {
	_, category, err := s.resolveCategoryByName(ctx, languageName, categoryName)
	if err != nil {
		return nil, err
	}

	snippets, err := s.snippets.ListSnippetsByCategory(ctx, category.ID)
	if err != nil {
		s.logger.Error("failed to list snippets",
			slog.String("category", category.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// CreateSnippet adds a snippet under (language, category). Both parent
// ids are recorded and are mutually consistent by construction: the
// category was resolved within the language.
func (s *CatalogService) CreateSnippet(ctx context.Context, languageName, categoryName string, in SnippetInput) (*model.Snippet, error) {
	language, category, err := s.resolveCategoryByName(ctx, languageName, categoryName)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "snippet title is required")
	}
	if in.Code == "" {
		return nil, apperror.ValidationFailed("code", "snippet code is required")
	}

	snippet := &model.Snippet{
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Code:         in.Code,
		LanguageID:   language.ID,
		LanguageName: language.Name,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		PreviewImage: in.PreviewImage,
		DemoLink:     in.DemoLink,
	}
	if err := s.snippets.CreateSnippet(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("title", snippet.Title),
		slog.String("category", category.Name),
	)
	return snippet, nil
}

// resolveSnippet walks the full hierarchy for a snippet mutation:
// language → category → snippet, ownership-checked at the last step.
func (s *CatalogService) resolveSnippet(ctx context.Context, languageName, categoryName, snippetID string) (*model.Snippet, error) {
	_, category, err := s.resolveCategoryByName(ctx, languageName, categoryName)
	if err != nil {
		return nil, err
	}

	snippet, err := s.snippets.GetSnippetByID(ctx, snippetID)
	if err != nil {
		return nil, err
	}

	if snippet.CategoryID != category.ID {
		return nil, apperror.OwnershipMismatch("Snippet does not belong to this category")
	}

	return snippet, nil
}

// UpdateSnippet applies a partial update after full hierarchy
// validation: only non-empty input fields overwrite stored values.
func (s *CatalogService) UpdateSnippet(ctx context.Context, languageName, categoryName, snippetID string, in SnippetInput) (*model.Snippet, error) {
	snippet, err := s.resolveSnippet(ctx, languageName, categoryName, snippetID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		snippet.Title = title
	}
	if description := strings.TrimSpace(in.Description); description != "" {
		snippet.Description = description
	}
	if in.Code != "" {
		snippet.Code = in.Code
	}
	if in.PreviewImage != "" {
		snippet.PreviewImage = in.PreviewImage
	}
	if in.DemoLink != "" {
		snippet.DemoLink = in.DemoLink
	}

	if err := s.snippets.UpdateSnippet(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", snippetID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.String("id", snippetID))
	return snippet, nil
}

// DeleteSnippet removes a snippet after full hierarchy validation.
func (s *CatalogService) DeleteSnippet(ctx context.Context, languageName, categoryName, snippetID string) error {
	if _, err := s.resolveSnippet(ctx, languageName, categoryName, snippetID); err != nil {
		return err
	}

	if err := s.snippets.DeleteSnippet(ctx, snippetID); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.String("id", snippetID))
	return nil
}

// GetSnippet fetches a snippet by raw id and bumps its view counter in
// the background. The increment must never delay or fail the read, so it
// runs detached from the request context with its own timeout.
func (s *CatalogService) GetSnippet(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.snippets.GetSnippetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), viewCountTimeout)
		defer cancel()
		if err := s.snippets.IncrementSnippetViews(bgCtx, id); err != nil {
			s.logger.Debug("view counter increment failed",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
		}
	}()

	return snippet, nil
}

// ---------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------

// Stats returns the live aggregate counts of users, languages, and
// snippets. These are real row counts, not the advisory per-language
// counters.
func (s *CatalogService) Stats(ctx context.Context) (*model.Stats, error) {
	users, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	languages, err := s.languages.CountLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting languages: %w", err)
	}
	snippets, err := s.snippets.CountSnippets(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting snippets: %w", err)
	}

	return &model.Stats{
		Users:     users,
		Languages: languages,
		Snippets:  snippets,
	}, nil
}
