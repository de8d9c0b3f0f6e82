package sqlite

// Shared test helpers.
//
// ":memory:" gives every test its own throwaway database: no disk I/O,
// no cross-test state, destroyed when the connection closes. t.Helper()
// on each helper makes failures report the caller's line, and t.Cleanup
// closes the connection even when a subtest fails.

import (
	"context"
	"testing"

	"github.com/sakif/snippet-catalog/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestLanguage(t *testing.T, db *DB, name, color string) *model.Language {
	t.Helper()
	language := &model.Language{Name: name, Color: color}
	if err := db.CreateLanguage(context.Background(), language); err != nil {
		t.Fatalf("failed to create test language %q: %v", name, err)
	}
	return language
}

func createTestCategory(t *testing.T, db *DB, languageID, name string) *model.Category {
	t.Helper()
	category := &model.Category{
		Name:        name,
		Description: name + " description",
		LanguageID:  languageID,
	}
	if err := db.CreateCategory(context.Background(), category); err != nil {
		t.Fatalf("failed to create test category %q: %v", name, err)
	}
	return category
}

func createTestSnippet(t *testing.T, db *DB, languageID, categoryID, title string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{
		Title:      title,
		Code:       "<button>" + title + "</button>",
		LanguageID: languageID,
		CategoryID: categoryID,
	}
	if err := db.CreateSnippet(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet %q: %v", title, err)
	}
	return snippet
}

func createTestUser(t *testing.T, db *DB, username, role string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$04$notarealhashbutlongenoughtostore1234",
		Role:         role,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return user
}
