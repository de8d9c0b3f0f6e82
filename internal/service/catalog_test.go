package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeCatalogRepo implements the language, category, and snippet
// repository interfaces over plain maps. Name lookups lower-case both
// sides to mirror the real store's anchored case-insensitive matching.
type fakeCatalogRepo struct {
	languages  map[string]*model.Language
	categories map[string]*model.Category
	snippets   map[string]*model.Snippet
	nextID     int

	// viewBumps receives the snippet id of every IncrementSnippetViews
	// call, so tests can observe the detached goroutine.
	viewBumps chan string
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		languages:  make(map[string]*model.Language),
		categories: make(map[string]*model.Category),
		snippets:   make(map[string]*model.Snippet),
		nextID:     1,
		viewBumps:  make(chan string, 16),
	}
}

func (f *fakeCatalogRepo) id(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, f.nextID)
	f.nextID++
	return id
}

// --- LanguageRepository ---

func (f *fakeCatalogRepo) CreateLanguage(ctx context.Context, l *model.Language) error {
	l.ID = f.id("lang")
	copied := *l
	f.languages[l.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) GetLanguageByID(ctx context.Context, id string) (*model.Language, error) {
	l, ok := f.languages[id]
	if !ok {
		return nil, apperror.NotFound("Language")
	}
	copied := *l
	return &copied, nil
}

func (f *fakeCatalogRepo) GetLanguageByName(ctx context.Context, name string) (*model.Language, error) {
	for _, l := range f.languages {
		if strings.EqualFold(l.Name, name) {
			copied := *l
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("Language")
}

func (f *fakeCatalogRepo) ListLanguages(ctx context.Context) ([]model.Language, error) {
	out := make([]model.Language, 0, len(f.languages))
	for _, l := range f.languages {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateLanguage(ctx context.Context, l *model.Language) error {
	if _, ok := f.languages[l.ID]; !ok {
		return apperror.NotFound("Language")
	}
	copied := *l
	f.languages[l.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) DeleteLanguage(ctx context.Context, id string) error {
	if _, ok := f.languages[id]; !ok {
		return apperror.NotFound("Language")
	}
	delete(f.languages, id)
	return nil
}

func (f *fakeCatalogRepo) CountLanguages(ctx context.Context) (int64, error) {
	return int64(len(f.languages)), nil
}

// --- CategoryRepository ---

func (f *fakeCatalogRepo) CreateCategory(ctx context.Context, c *model.Category) error {
	c.ID = f.id("cat")
	copied := *c
	f.categories[c.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, apperror.NotFound("Category")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCatalogRepo) GetCategoryByName(ctx context.Context, languageID, name string) (*model.Category, error) {
	for _, c := range f.categories {
		if c.LanguageID == languageID && strings.EqualFold(c.Name, name) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("Category")
}

func (f *fakeCatalogRepo) ListCategoriesByLanguage(ctx context.Context, languageID string) ([]model.Category, error) {
	out := make([]model.Category, 0)
	for _, c := range f.categories {
		if c.LanguageID == languageID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateCategory(ctx context.Context, c *model.Category) error {
	if _, ok := f.categories[c.ID]; !ok {
		return apperror.NotFound("Category")
	}
	copied := *c
	f.categories[c.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) DeleteCategory(ctx context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return apperror.NotFound("Category")
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCatalogRepo) PopularCategories(ctx context.Context, limit int) ([]model.PopularCategory, error) {
	out := make([]model.PopularCategory, 0)
	for _, c := range f.categories {
		if len(out) == limit {
			break
		}
		out = append(out, model.PopularCategory{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// --- SnippetRepository ---

func (f *fakeCatalogRepo) CreateSnippet(ctx context.Context, s *model.Snippet) error {
	s.ID = f.id("snip")
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	copied := *s
	f.snippets[s.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) GetSnippetByID(ctx context.Context, id string) (*model.Snippet, error) {
	s, ok := f.snippets[id]
	if !ok {
		return nil, apperror.NotFound("Snippet")
	}
	copied := *s
	return &copied, nil
}

func (f *fakeCatalogRepo) ListSnippetsByCategory(ctx context.Context, categoryID string) ([]model.Snippet, error) {
	out := make([]model.Snippet, 0)
	for _, s := range f.snippets {
		if s.CategoryID == categoryID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateSnippet(ctx context.Context, s *model.Snippet) error {
	if _, ok := f.snippets[s.ID]; !ok {
		return apperror.NotFound("Snippet")
	}
	s.UpdatedAt = time.Now()
	copied := *s
	f.snippets[s.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) DeleteSnippet(ctx context.Context, id string) error {
	if _, ok := f.snippets[id]; !ok {
		return apperror.NotFound("Snippet")
	}
	delete(f.snippets, id)
	return nil
}

func (f *fakeCatalogRepo) IncrementSnippetViews(ctx context.Context, id string) error {
	if s, ok := f.snippets[id]; ok {
		s.Views++
	}
	f.viewBumps <- id
	return nil
}

func (f *fakeCatalogRepo) CountSnippets(ctx context.Context) (int64, error) {
	return int64(len(f.snippets)), nil
}

// newTestCatalogService wires a CatalogService over one fake repo (it
// implements all three catalog interfaces) plus a fake user repo for
// stats.
func newTestCatalogService(t *testing.T, repo *fakeCatalogRepo, users *fakeUserRepo) *CatalogService {
	t.Helper()
	if users == nil {
		users = newFakeUserRepo()
	}
	return NewCatalogService(repo, repo, repo, users, testLogger())
}

// seedHierarchy creates React → Homepage → one snippet and returns all
// three.
func seedHierarchy(t *testing.T, svc *CatalogService) (*model.Language, *model.Category, *model.Snippet) {
	t.Helper()
	ctx := context.Background()

	language, err := svc.CreateLanguage(ctx, "React", "from-indigo-500 to-purple-600")
	if err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}
	category, err := svc.CreateCategory(ctx, "React", "Homepage", "Responsive homepage layouts")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	snippet, err := svc.CreateSnippet(ctx, "React", "Homepage", SnippetInput{
		Title: "Hero section",
		Code:  "<section>hero</section>",
	})
	if err != nil {
		t.Fatalf("CreateSnippet: %v", err)
	}
	return language, category, snippet
}

// =========================================================================
// LANGUAGE TESTS
// =========================================================================

func TestCreateLanguage_Validation(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)

	cases := []struct {
		name        string
		lang, color string
	}{
		{"empty name", "", "purple"},
		{"whitespace name", "   ", "purple"},
		{"empty color", "React", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateLanguage(context.Background(), tc.lang, tc.color)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("CreateLanguage() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdateLanguage_PartialMerge(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	language, _, _ := seedHierarchy(t, svc)

	// Only the color is supplied; the name must survive.
	updated, err := svc.UpdateLanguage(context.Background(), language.ID, "", "from-cyan-500 to-teal-600")
	if err != nil {
		t.Fatalf("UpdateLanguage() error = %v", err)
	}
	if updated.Name != "React" {
		t.Errorf("Name = %q, want React untouched", updated.Name)
	}
	if updated.Color != "from-cyan-500 to-teal-600" {
		t.Errorf("Color = %q, want the new value", updated.Color)
	}
}

func TestUpdateLanguage_NotFound(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)

	_, err := svc.UpdateLanguage(context.Background(), "no-such-id", "X", "y")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateLanguage() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// CATEGORY TESTS
// =========================================================================

func TestListCategories_UnknownLanguage(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	seedHierarchy(t, svc)

	// Unknown language is a miss, not an empty list.
	_, err := svc.ListCategories(context.Background(), "Cobol")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ListCategories() error = %v, want ErrNotFound", err)
	}
}

func TestListCategories_EmptyButExisting(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)

	if _, err := svc.CreateLanguage(context.Background(), "Zig", "orange"); err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}

	categories, err := svc.ListCategories(context.Background(), "zig")
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("got %d categories, want 0", len(categories))
	}
}

func TestUpdateCategory_OwnershipMismatch(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	seedHierarchy(t, svc)

	// A second language with its own category.
	if _, err := svc.CreateLanguage(context.Background(), "Python", "green"); err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}
	pyCat, err := svc.CreateCategory(context.Background(), "Python", "Searchbar", "")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	// Addressing Python's category through React: both exist, but the
	// link is wrong. Must be an ownership error, not a miss.
	_, err = svc.UpdateCategory(context.Background(), "React", pyCat.ID, "New name", "")
	if !errors.Is(err, apperror.ErrOwnership) {
		t.Fatalf("UpdateCategory() error = %v, want ErrOwnership", err)
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "Category does not belong to this language" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestUpdateCategory_HierarchyShortCircuit(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	_, category, _ := seedHierarchy(t, svc)

	// Missing language fails first even though the category id is valid.
	_, err := svc.UpdateCategory(context.Background(), "Cobol", category.ID, "x", "")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("UpdateCategory() error = %v, want ErrNotFound", err)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "Language not found" {
		t.Errorf("message = %q, want %q", appErr.Message, "Language not found")
	}
}

func TestDeleteCategory_ValidatesHierarchyFirst(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	seedHierarchy(t, svc)

	err := svc.DeleteCategory(context.Background(), "React", "no-such-category")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteCategory() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// SNIPPET TESTS
// =========================================================================

func TestCreateSnippet_Validation(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	seedHierarchy(t, svc)

	_, err := svc.CreateSnippet(context.Background(), "React", "Homepage", SnippetInput{Code: "x"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("missing title: error = %v, want ErrValidation", err)
	}

	_, err = svc.CreateSnippet(context.Background(), "React", "Homepage", SnippetInput{Title: "x"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("missing code: error = %v, want ErrValidation", err)
	}
}

func TestCreateSnippet_RecordsBothParents(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	language, category, _ := seedHierarchy(t, svc)

	snippet, err := svc.CreateSnippet(context.Background(), "react", "HOMEPAGE", SnippetInput{
		Title: "Navbar",
		Code:  "<nav/>",
	})
	if err != nil {
		t.Fatalf("CreateSnippet() error = %v", err)
	}
	if snippet.LanguageID != language.ID || snippet.CategoryID != category.ID {
		t.Errorf("parents = %s/%s, want %s/%s",
			snippet.LanguageID, snippet.CategoryID, language.ID, category.ID)
	}
}

func TestUpdateSnippet_PartialMerge(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	_, _, snippet := seedHierarchy(t, svc)

	// Only the title changes; code and the rest stay.
	updated, err := svc.UpdateSnippet(context.Background(), "React", "Homepage", snippet.ID, SnippetInput{
		Title: "Hero section v2",
	})
	if err != nil {
		t.Fatalf("UpdateSnippet() error = %v", err)
	}
	if updated.Title != "Hero section v2" {
		t.Errorf("Title = %q, want the new value", updated.Title)
	}
	if updated.Code != "<section>hero</section>" {
		t.Errorf("Code = %q, want it untouched", updated.Code)
	}
}

func TestUpdateSnippet_OwnershipMismatch(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	_, _, snippet := seedHierarchy(t, svc)

	// A sibling category under the same language.
	if _, err := svc.CreateCategory(context.Background(), "React", "Login Page", ""); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	_, err := svc.UpdateSnippet(context.Background(), "React", "Login Page", snippet.ID, SnippetInput{Title: "x"})
	if !errors.Is(err, apperror.ErrOwnership) {
		t.Fatalf("UpdateSnippet() error = %v, want ErrOwnership", err)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "Snippet does not belong to this category" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestDeleteSnippet_ShortCircuitsOnMissingCategory(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)
	_, _, snippet := seedHierarchy(t, svc)

	err := svc.DeleteSnippet(context.Background(), "React", "Nonexistent", snippet.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("DeleteSnippet() error = %v, want ErrNotFound", err)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "Category not found" {
		t.Errorf("message = %q, want %q", appErr.Message, "Category not found")
	}
}

func TestGetSnippet_BumpsViewsInBackground(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newTestCatalogService(t, repo, nil)
	_, _, snippet := seedHierarchy(t, svc)

	found, err := svc.GetSnippet(context.Background(), snippet.ID)
	if err != nil {
		t.Fatalf("GetSnippet() error = %v", err)
	}
	if found.ID != snippet.ID {
		t.Errorf("got snippet %s, want %s", found.ID, snippet.ID)
	}

	// The increment runs detached; wait for it to land.
	select {
	case id := <-repo.viewBumps:
		if id != snippet.ID {
			t.Errorf("view bump for %s, want %s", id, snippet.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("view counter was never incremented")
	}
}

func TestGetSnippet_EmptyID(t *testing.T) {
	svc := newTestCatalogService(t, newFakeCatalogRepo(), nil)

	_, err := svc.GetSnippet(context.Background(), "  ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("GetSnippet() error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// STATS TESTS
// =========================================================================

func TestStats(t *testing.T) {
	repo := newFakeCatalogRepo()
	users := newFakeUserRepo()
	svc := newTestCatalogService(t, repo, users)
	seedHierarchy(t, svc)

	users.users["u1"] = &model.User{ID: "u1", Username: "alice"}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Users != 1 || stats.Languages != 1 || stats.Snippets != 1 {
		t.Errorf("Stats = %+v, want 1/1/1", stats)
	}
}
