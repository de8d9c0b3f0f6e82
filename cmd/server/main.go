// Package main is the entry point for the snippet catalog server.
//
// main() stays minimal: load configuration, create the logger, start
// the server. All actual logic lives in internal/ packages so it can be
// tested without running a binary.
//
// CONFIGURATION:
// Everything comes from environment variables, optionally loaded from a
// .env file in the working directory:
//
//	PORT             listen port (default 8080)
//	DB_PATH          SQLite database file (default data/catalog.db)
//	JWT_SECRET       HMAC signing key, required, at least 16 chars
//	ALLOWED_ORIGINS  comma-separated CORS origins (default *)
//
// Generate a secret with: openssl rand -hex 32
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sakif/snippet-catalog/internal/server"
)

func main() {
	// A missing .env is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/catalog.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// Create the data directory if needed (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET not set — refusing to start without a signing key")
		os.Exit(1)
	}

	allowedOrigins := []string{"*"}
	if envOrigins := os.Getenv("ALLOWED_ORIGINS"); envOrigins != "" {
		allowedOrigins = allowedOrigins[:0]
		for _, origin := range strings.Split(envOrigins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := server.Config{
		Port:           port,
		DBPath:         dbPath,
		JWTSecret:      jwtSecret,
		AllowedOrigins: allowedOrigins,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
