// Package sqlite implements the repository interfaces using SQLite as
// the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation
// of the SQLite sources — it works everywhere Go works.
//
// SCHEMA NOTES:
//   - Every table uses app-generated string primary keys (rs/xid), so ids
//     are URL-safe and sortable by creation time.
//   - languages and categories carry a lower-cased name_key column for
//     case-insensitive lookups. Matching on a normalized key is an exact,
//     anchored comparison — unlike a regex search it cannot be tricked by
//     pattern metacharacters in user input, and it can use an index.
//   - There are deliberately NO foreign-key constraints: deleting a
//     language or category must succeed even when children exist, leaving
//     the children orphaned. That mirrors the product's current (known)
//     behavior; see the design notes before "fixing" it.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under
	// the name "sqlite" at init time.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements all four repository
// interfaces (user, language, category, snippet).
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open only creates the pool; Ping forces a real connection so a
	// bad path or permission problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where many requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer Close() next to New().
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the four tables. CREATE TABLE IF NOT EXISTS keeps this
// safe to run on every start; schema changes beyond that would move to a
// real migration tool.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// name is UNIQUE case-sensitively (the display name); name_key is the
	// lower-cased lookup key and is indexed but not unique, preserving the
	// original case-sensitive uniqueness rule.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS languages (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL UNIQUE,
			name_key TEXT NOT NULL,
			color    TEXT NOT NULL DEFAULT '',
			snippets INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_languages_name_key ON languages(name_key);
	`)
	if err != nil {
		return fmt.Errorf("creating languages table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			name_key    TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			language_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_categories_language_name
			ON categories(language_id, name_key);
	`)
	if err != nil {
		return fmt.Errorf("creating categories table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			code          TEXT NOT NULL,
			language_id   TEXT NOT NULL,
			category_id   TEXT NOT NULL,
			preview_image TEXT NOT NULL DEFAULT '',
			demo_link     TEXT NOT NULL DEFAULT '',
			views         INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_category_id ON snippets(category_id);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	return nil
}
