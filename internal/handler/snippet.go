package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sakif/snippet-catalog/internal/service"
)

// HandleListSnippets returns the snippets under a category, after
// resolving the language and category names case-insensitively.
//
// HTTP: GET /api/languages/{languageName}/categories/{categoryName}/snippets (public)
// HTTP: GET /api/admin/languages/{language}/categories/{category}/snippets
func (h *CatalogHandler) HandleListSnippets(w http.ResponseWriter, r *http.Request) {
	languageName := pathValueAny(r, "languageName", "language")
	categoryName := pathValueAny(r, "categoryName", "category")

	snippets, err := h.catalog.ListSnippets(r.Context(), languageName, categoryName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippets)
}

// HandleCreateSnippet adds a snippet under the named language/category
// pair.
//
// HTTP: POST /api/admin/languages/{language}/categories/{category}/snippets
func (h *CatalogHandler) HandleCreateSnippet(w http.ResponseWriter, r *http.Request) {
	languageName := r.PathValue("language")
	categoryName := r.PathValue("category")

	var in service.SnippetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	snippet, err := h.catalog.CreateSnippet(r.Context(), languageName, categoryName, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleUpdateSnippet partially updates a snippet after full hierarchy
// validation (language, category, snippet, and both ownership links).
//
// HTTP: PUT /api/admin/languages/{language}/categories/{category}/snippets/{snippetId}
func (h *CatalogHandler) HandleUpdateSnippet(w http.ResponseWriter, r *http.Request) {
	languageName := r.PathValue("language")
	categoryName := r.PathValue("category")
	snippetID := r.PathValue("snippetId")

	var in service.SnippetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	snippet, err := h.catalog.UpdateSnippet(r.Context(), languageName, categoryName, snippetID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDeleteSnippet removes a snippet after full hierarchy validation.
//
// HTTP: DELETE /api/admin/languages/{language}/categories/{category}/snippets/{snippetId}
func (h *CatalogHandler) HandleDeleteSnippet(w http.ResponseWriter, r *http.Request) {
	languageName := r.PathValue("language")
	categoryName := r.PathValue("category")
	snippetID := r.PathValue("snippetId")

	if err := h.catalog.DeleteSnippet(r.Context(), languageName, categoryName, snippetID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Snippet deleted"})
}

// HandleGetSnippet returns a single snippet by id and bumps its view
// counter in the background.
//
// HTTP: GET /api/snippets/{id} (public)
func (h *CatalogHandler) HandleGetSnippet(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.catalog.GetSnippet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}
