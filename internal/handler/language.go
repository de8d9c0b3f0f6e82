package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-catalog/internal/service"
)

// CatalogHandler serves the Language/Category/Snippet hierarchy plus the
// popular-categories and stats aggregates. Its methods are spread over
// language.go, category.go, and snippet.go, one file per hierarchy
// level.
//
// PATH PARAMETER NAMING:
// The admin subtree reuses one wildcard name per path segment because
// the router requires consistent names at the same position. So
// {language} holds the language *id* for language mutations but the
// language *name* for the category/snippet subtree, and {category} holds
// the category *id* for category mutations but the category *name* for
// the snippet subtree. Each handler names a local variable for what it
// actually reads.
type CatalogHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// languageRequest is the body for language create/update. On update,
// empty fields leave the stored values untouched.
type languageRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HandleListLanguages returns all languages.
//
// HTTP: GET /api/languages (public) and GET /api/admin/languages
func (h *CatalogHandler) HandleListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.catalog.ListLanguages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, languages)
}

// HandleCreateLanguage adds a language.
//
// HTTP: POST /api/admin/languages
func (h *CatalogHandler) HandleCreateLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	language, err := h.catalog.CreateLanguage(r.Context(), req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, language)
}

// HandleUpdateLanguage partially updates a language by id.
//
// HTTP: PUT /api/admin/languages/{language}   ({language} = id)
func (h *CatalogHandler) HandleUpdateLanguage(w http.ResponseWriter, r *http.Request) {
	languageID := r.PathValue("language")

	var req languageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	language, err := h.catalog.UpdateLanguage(r.Context(), languageID, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, language)
}

// HandleDeleteLanguage removes a language by id. No cascade: its
// categories and snippets are orphaned.
//
// HTTP: DELETE /api/admin/languages/{language}   ({language} = id)
func (h *CatalogHandler) HandleDeleteLanguage(w http.ResponseWriter, r *http.Request) {
	languageID := r.PathValue("language")

	if err := h.catalog.DeleteLanguage(r.Context(), languageID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Language deleted"})
}

// HandleStats returns the aggregate counts.
//
// HTTP: GET /api/stats (public) and GET /api/admin/stats
func (h *CatalogHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
