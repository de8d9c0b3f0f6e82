// Package handler contains the HTTP handlers. Handlers parse requests,
// call the service layer, and translate results (and domain errors) back
// to JSON — nothing else.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-catalog/internal/auth"
	"github.com/sakif/snippet-catalog/internal/service"
)

// AuthHandler serves the identity endpoints: login, register, profile,
// and the admin user listing.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

// HandleLogin authenticates a username/password pair.
//
// HTTP: POST /api/login
// Body: {"username": "...", "password": "..."}
// 200 → {"token": "...", "role": "..."}; bad credentials → 400 with a
// generic message (identical for unknown user and wrong password).
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleRegister creates a new account with role "user".
//
// HTTP: POST /api/register
// 201 → the created user (password hash never serializes); duplicate
// username/email → 409.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleProfile returns the authenticated caller's account.
//
// HTTP: GET /api/profile (behind auth.RequireAuth)
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		// Unreachable behind the guard, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "No token provided"})
		return
	}

	user, err := h.auth.Profile(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleListUsers returns all accounts as summaries (username, email,
// createdAt — never the hash).
//
// HTTP: GET /api/admin/users (behind auth.RequireAdmin)
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
