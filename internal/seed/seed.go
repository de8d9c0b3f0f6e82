// Package seed loads the default catalog content and the admin account.
//
// Seeding is a separate step from serving, run via cmd/seed, so the
// server never mutates data as a startup side effect. The seeder is
// idempotent: languages are inserted only into an empty catalog, and
// the admin account only when the username is free, so re-running it
// against a live database changes nothing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/auth"
	"github.com/sakif/snippet-catalog/internal/model"
	"github.com/sakif/snippet-catalog/internal/repository/sqlite"
)

// Options controls the admin account the seeder creates.
type Options struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// DefaultOptions returns the development defaults. Production runs must
// override the password.
func DefaultOptions() Options {
	return Options{
		AdminUsername: "admin123",
		AdminEmail:    "admin@codesnippetapp.com",
		AdminPassword: "admin123",
	}
}

// defaultLanguage pairs a language with the category set every seeded
// language starts with.
type defaultLanguage struct {
	name     string
	color    string
	snippets int
}

var defaultLanguages = []defaultLanguage{
	{"React", "from-indigo-500 to-purple-600", 200},
	{"HTML & CSS", "from-orange-500 to-yellow-600", 150},
	{"Flutter", "from-cyan-500 to-teal-600", 100},
	{"Python", "from-emerald-500 to-green-600", 300},
}

var defaultCategories = []struct {
	name        string
	description string
}{
	{"Login Page", "Customizable login form designs"},
	{"Homepage", "Responsive homepage layouts"},
	{"Register Page", "User registration form designs"},
	{"Searchbar", "Interactive search bar components"},
}

// Run seeds the catalog and the admin account into db.
func Run(ctx context.Context, db *sqlite.DB, passwords *auth.PasswordService, logger *slog.Logger, opts Options) error {
	if err := seedCatalog(ctx, db, logger); err != nil {
		return err
	}
	return seedAdmin(ctx, db, passwords, logger, opts)
}

// seedCatalog inserts the default languages, each with the standard four
// categories. Skipped entirely when any language already exists, so a
// customised catalog is never mixed with defaults.
func seedCatalog(ctx context.Context, db *sqlite.DB, logger *slog.Logger) error {
	count, err := db.CountLanguages(ctx)
	if err != nil {
		return fmt.Errorf("counting languages: %w", err)
	}
	if count > 0 {
		logger.Info("catalog already populated, skipping", slog.Int64("languages", count))
		return nil
	}

	for _, dl := range defaultLanguages {
		language := &model.Language{
			Name:     dl.name,
			Color:    dl.color,
			Snippets: dl.snippets,
		}
		if err := db.CreateLanguage(ctx, language); err != nil {
			return fmt.Errorf("seeding language %q: %w", dl.name, err)
		}

		for _, dc := range defaultCategories {
			category := &model.Category{
				Name:        dc.name,
				Description: dc.description,
				LanguageID:  language.ID,
			}
			if err := db.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("seeding category %q under %q: %w", dc.name, dl.name, err)
			}
		}

		logger.Info("seeded language",
			slog.String("name", dl.name),
			slog.Int("categories", len(defaultCategories)),
		)
	}

	return nil
}

// seedAdmin creates the admin account unless the username already
// exists.
func seedAdmin(ctx context.Context, db *sqlite.DB, passwords *auth.PasswordService, logger *slog.Logger, opts Options) error {
	_, err := db.GetUserByUsername(ctx, opts.AdminUsername)
	if err == nil {
		logger.Info("admin account already exists, skipping", slog.String("username", opts.AdminUsername))
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("looking up admin account: %w", err)
	}

	hash, err := passwords.Hash(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &model.User{
		Username:     opts.AdminUsername,
		Email:        opts.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := db.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	logger.Info("seeded admin account", slog.String("username", opts.AdminUsername))
	return nil
}
