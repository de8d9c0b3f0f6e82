// Package server sets up the HTTP server, router, and all route
// definitions.
//
// This package is the composition root: it opens the database, builds
// the service and handler layers, and wires every route in one place.
// main.go only loads config and calls New + Start, which keeps the
// whole dependency graph visible in a single file and lets tests build
// a fully wired server without running main.
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go: Config (env) → server.New
//	server.New: sqlite.DB → TokenService/PasswordService
//	          → AuthService/CatalogService → AuthHandler/CatalogHandler
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, and nothing below the repository
// layer ever sees HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/snippet-catalog/internal/auth"
	"github.com/sakif/snippet-catalog/internal/handler"
	"github.com/sakif/snippet-catalog/internal/middleware"
	sqliteRepo "github.com/sakif/snippet-catalog/internal/repository/sqlite"
	"github.com/sakif/snippet-catalog/internal/service"
)

// Config holds server configuration, loaded from the environment by
// main.go.
type Config struct {
	Port           int
	DBPath         string
	JWTSecret      string
	AllowedOrigins []string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown in Start; tests that use the router
// directly via Handler() must close the server with Close.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a fully wired Server: database, auth plumbing, services,
// handlers, and routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring tokens: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes(tokens)

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /api/login                  → issue a JWT
//	POST   /api/register               → create a "user" account
//	GET    /api/profile                → caller's account        (any valid token)
//	GET    /api/languages              → list languages
//	GET    /api/languages/{languageName}/categories
//	GET    /api/languages/{languageName}/categories/{categoryName}/snippets
//	GET    /api/snippets/{id}          → single snippet (+view bump)
//	GET    /api/categories/popular     → top categories by snippet count
//	GET    /api/stats                  → aggregate counts
//
//	/api/admin/* mirrors the read routes and adds the mutations; every
//	admin route sits behind auth.RequireAdmin (valid token AND role
//	"admin").
//
// MIDDLEWARE ORDER MATTERS: RequestID must run before our Logger so the
// log line can include the id; Recoverer runs inside both so a panic is
// still logged as a 500.
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	catalogService := service.NewCatalogService(s.db, s.db, s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Identity
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/register", authHandler.HandleRegister)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/profile", authHandler.HandleProfile)
		})

		// Public catalog reads
		r.Get("/languages", catalogHandler.HandleListLanguages)
		r.Get("/languages/{languageName}/categories", catalogHandler.HandleListCategories)
		r.Get("/languages/{languageName}/categories/{categoryName}/snippets", catalogHandler.HandleListSnippets)
		r.Get("/snippets/{id}", catalogHandler.HandleGetSnippet)
		r.Get("/categories/popular", catalogHandler.HandlePopularCategories)
		r.Get("/stats", catalogHandler.HandleStats)

		// Admin mirror + mutations. The wildcard names {language} and
		// {category} are shared across the subtree (chi requires one
		// name per position); see CatalogHandler for which routes read
		// them as ids vs names.
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin(tokens))

			r.Get("/users", authHandler.HandleListUsers)
			r.Get("/stats", catalogHandler.HandleStats)

			r.Get("/languages", catalogHandler.HandleListLanguages)
			r.Post("/languages", catalogHandler.HandleCreateLanguage)
			r.Put("/languages/{language}", catalogHandler.HandleUpdateLanguage)
			r.Delete("/languages/{language}", catalogHandler.HandleDeleteLanguage)

			r.Get("/languages/{language}/categories", catalogHandler.HandleListCategories)
			r.Post("/languages/{language}/categories", catalogHandler.HandleCreateCategory)
			r.Put("/languages/{language}/categories/{category}", catalogHandler.HandleUpdateCategory)
			r.Delete("/languages/{language}/categories/{category}", catalogHandler.HandleDeleteCategory)

			r.Get("/languages/{language}/categories/{category}/snippets", catalogHandler.HandleListSnippets)
			r.Post("/languages/{language}/categories/{category}/snippets", catalogHandler.HandleCreateSnippet)
			r.Put("/languages/{language}/categories/{category}/snippets/{snippetId}", catalogHandler.HandleUpdateSnippet)
			r.Delete("/languages/{language}/categories/{category}/snippets/{snippetId}", catalogHandler.HandleDeleteSnippet)
		})
	})

	// Unknown routes get the same JSON error shape as everything else.
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Route not found"}` + "\n"))
	})
}

// Handler exposes the router, mainly for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection. Start calls this itself;
// callers that only use Handler() must call it explicitly.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully:
//  1. Stop accepting new connections
//  2. Wait up to 30s for in-flight requests
//  3. Close the database (flushes the WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
