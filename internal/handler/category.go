package handler

import (
	"encoding/json"
	"net/http"
)

// categoryRequest is the body for category create/update. On update,
// empty fields leave the stored values untouched.
type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleListCategories returns the categories under a language, resolved
// by case-insensitive name. 404 when the language is unknown — an
// existing language with no categories returns an empty array instead.
//
// HTTP: GET /api/languages/{languageName}/categories (public)
// HTTP: GET /api/admin/languages/{language}/categories
func (h *CatalogHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	languageName := pathValueAny(r, "languageName", "language")

	categories, err := h.catalog.ListCategories(r.Context(), languageName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleCreateCategory adds a category under the named language.
//
// HTTP: POST /api/admin/languages/{language}/categories
func (h *CatalogHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	languageName := r.PathValue("language")

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), languageName, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// HandleUpdateCategory partially updates a category after hierarchy
// validation (language exists, category exists, category belongs to that
// language).
//
// HTTP: PUT /api/admin/languages/{language}/categories/{category}
// ({category} = id)
func (h *CatalogHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	languageName := r.PathValue("language")
	categoryID := r.PathValue("category")

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), languageName, categoryID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// HandleDeleteCategory removes a category after hierarchy validation.
// Its snippets are orphaned, not deleted.
//
// HTTP: DELETE /api/admin/languages/{language}/categories/{category}
// ({category} = id)
func (h *CatalogHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	languageName := r.PathValue("language")
	categoryID := r.PathValue("category")

	if err := h.catalog.DeleteCategory(r.Context(), languageName, categoryID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

// HandlePopularCategories returns the top categories by snippet count.
//
// HTTP: GET /api/categories/popular (public)
func (h *CatalogHandler) HandlePopularCategories(w http.ResponseWriter, r *http.Request) {
	popular, err := h.catalog.PopularCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, popular)
}

// pathValueAny returns the first non-empty path parameter among names.
// The public and admin subtrees use different wildcard names for the
// same logical segment; handlers mounted on both use this helper.
func pathValueAny(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.PathValue(name); v != "" {
			return v
		}
	}
	return ""
}
