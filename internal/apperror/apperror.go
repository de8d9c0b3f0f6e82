// Package apperror defines the application's error taxonomy.
//
// Every layer below the handlers returns one of these typed errors (or a
// wrapped one). The HTTP layer maps them to status codes in exactly one
// place (handler/response.go), so services and repositories never need to
// know about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Handlers check these with errors.Is to pick a status:
//
//	ErrValidation, ErrOwnership, ErrInvalidCredentials → 400
//	ErrUnauthenticated                                 → 401
//	ErrForbidden                                       → 403
//	ErrNotFound                                        → 404
//	ErrConflict                                        → 409
//	anything else                                      → 500
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrOwnership          = errors.New("ownership mismatch")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AppError pairs a sentinel with the human-readable message the client
// will see. The message is the only payload of an error response, so it
// must never leak internals (SQL, file paths, stack traces).
type AppError struct {
	Err     error  // sentinel, checked with errors.Is
	Message string // shown to the client verbatim
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource, e.g. NotFound("Language") yields
// the message "Language not found".
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// OwnershipMismatch reports a child that exists but belongs to a
// different parent than the request named.
func OwnershipMismatch(message string) *AppError {
	return &AppError{
		Err:     ErrOwnership,
		Message: message,
	}
}

// InvalidCredentials is deliberately generic: unknown username and wrong
// password produce the identical message so callers cannot enumerate
// accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Invalid credentials",
	}
}

func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
