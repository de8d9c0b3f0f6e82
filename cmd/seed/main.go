// Package main seeds the catalog database with the default languages,
// categories, and admin account. Safe to run repeatedly: existing data
// is never overwritten.
//
// Usage:
//
//	seed --db data/catalog.db --admin-user admin123 --admin-password s3cret
//
// Flags fall back to the same environment (and .env file) the server
// reads, so a plain `seed` prepares the database the server will open.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/sakif/snippet-catalog/internal/auth"
	"github.com/sakif/snippet-catalog/internal/repository/sqlite"
	"github.com/sakif/snippet-catalog/internal/seed"
)

func main() {
	_ = godotenv.Load()

	defaults := seed.DefaultOptions()

	dbDefault := "data/catalog.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbDefault = envDB
	}

	dbPath := pflag.String("db", dbDefault, "path to the SQLite database file")
	adminUser := pflag.String("admin-user", defaults.AdminUsername, "admin username")
	adminEmail := pflag.String("admin-email", defaults.AdminEmail, "admin email")
	adminPassword := pflag.String("admin-password", defaults.AdminPassword, "admin password")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		logger.Error("failed to create database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := seed.Options{
		AdminUsername: *adminUser,
		AdminEmail:    *adminEmail,
		AdminPassword: *adminPassword,
	}

	if err := seed.Run(ctx, db, auth.NewPasswordService(), logger, opts); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding complete", slog.String("database", *dbPath))
}
