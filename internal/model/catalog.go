package model

import "time"

// Language is the root of the catalog hierarchy.
//
// Snippets is an advisory display counter carried over from seeding; it
// is not reconciled against the actual snippet rows. The real count is
// available through the stats endpoint.
type Language struct {
	ID       string `json:"id"       db:"id"`
	Name     string `json:"name"     db:"name"`
	Color    string `json:"color"    db:"color"`
	Snippets int    `json:"snippets" db:"snippets"`
}

// Category belongs to exactly one Language.
//
// LanguageName is not stored on the row — it is resolved by joining the
// parent at read time, so renaming a language is immediately visible on
// its categories. A category whose language was deleted (orphan) renders
// an empty LanguageName and is only reachable by raw id.
type Category struct {
	ID           string `json:"id"           db:"id"`
	Name         string `json:"name"         db:"name"`
	Description  string `json:"description"  db:"description"`
	LanguageID   string `json:"languageId"   db:"language_id"`
	LanguageName string `json:"languageName" db:"language_name"`
}

// Snippet belongs to exactly one Category, and through it to one
// Language. Both parent ids are stored; both parent names are joined at
// read time like Category.LanguageName.
type Snippet struct {
	ID           string    `json:"id"           db:"id"`
	Title        string    `json:"title"        db:"title"`
	Description  string    `json:"description"  db:"description"`
	Code         string    `json:"code"         db:"code"`
	LanguageID   string    `json:"languageId"   db:"language_id"`
	LanguageName string    `json:"languageName" db:"language_name"`
	CategoryID   string    `json:"categoryId"   db:"category_id"`
	CategoryName string    `json:"categoryName" db:"category_name"`
	PreviewImage string    `json:"previewImage" db:"preview_image"`
	DemoLink     string    `json:"demoLink"     db:"demo_link"`
	Views        int64     `json:"views"        db:"views"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"    db:"updated_at"`
}

// PopularCategory is the shape returned by the popular-categories
// aggregate: a category joined with its language and its live snippet
// count.
type PopularCategory struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	LanguageName string `json:"languageName"`
	SnippetCount int    `json:"snippetCount"`
}

// Stats are the public aggregate counts.
type Stats struct {
	Users     int64 `json:"users"`
	Languages int64 `json:"languages"`
	Snippets  int64 `json:"snippets"`
}
