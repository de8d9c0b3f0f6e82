package handler

// Response helpers. Every handler sends JSON through these two functions
// so the response shape stays consistent: payloads are encoded as-is,
// errors are always {"error": "<message>"} with a status derived from the
// domain error taxonomy.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-catalog/internal/apperror"
)

// ErrorResponse is the single error shape returned by the API. Clients
// surface the message string directly; the HTTP status is the only
// machine-readable signal.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body — once Encode
// writes, header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends the
// standard error body.
//
// This is the one place where the apperror taxonomy meets HTTP. The
// service layer stays protocol-agnostic; errors.Is walks the wrap chain
// so services may annotate errors freely with fmt.Errorf("...: %w", err).
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrOwnership),
			errors.Is(err, apperror.ErrInvalidCredentials):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, ErrorResponse{Error: appErr.Message})
		return
	}

	// Unknown error — generic 500. The raw message might contain SQL or
	// file paths, so it never reaches the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
}
