package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sakif/snippet-catalog/internal/model"
)

// contextKey is an unexported type for context keys in this package.
// Using a package-private type prevents other packages from reading or
// shadowing the claims value by guessing a string key.
type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth is a middleware that enforces a valid bearer token on
// protected routes, regardless of role.
//
// It reads the "Authorization: Bearer <token>" header, validates the
// token, and stores the decoded claims in the request context. A missing
// or invalid token ends the request with 401 — the client must log in
// again; there is nothing to retry.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, errMsg := extractClaims(r, tokens)
			if claims == nil {
				writeAuthError(w, http.StatusUnauthorized, errMsg)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin is the guard applied to every admin route. On top of
// RequireAuth's token check it rejects tokens whose role is not "admin"
// with 403. The guard is a pure function of the token and the clock — it
// performs no I/O, so it is safe to reuse across all admin routes.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, errMsg := extractClaims(r, tokens)
			if claims == nil {
				writeAuthError(w, http.StatusUnauthorized, errMsg)
				return
			}

			if claims.Role != model.RoleAdmin {
				writeAuthError(w, http.StatusForbidden, "Access denied. Admin only.")
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// ClaimsFromContext retrieves the authenticated caller's claims.
// Returns (nil, false) on routes that did not pass through a guard.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

func withClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// extractClaims pulls the bearer token from the Authorization header and
// validates it. Returns (nil, message) when the request carries no usable
// token; the message distinguishes "absent" from "invalid" for the client
// without leaking why validation failed.
func extractClaims(r *http.Request, tokens *TokenService) (*Claims, string) {
	header := r.Header.Get("Authorization")
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if header == "" || tokenStr == header || tokenStr == "" {
		return nil, "No token provided"
	}

	claims, err := tokens.Validate(tokenStr)
	if err != nil {
		return nil, "Invalid token"
	}
	return claims, ""
}

// writeAuthError emits the standard {"error": message} body. The guards
// cannot use the handler package's helpers without an import cycle, so
// this small duplicate lives here.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
