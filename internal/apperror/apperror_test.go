package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("Language"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("Username or email already in use"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "OwnershipMismatch wraps ErrOwnership",
			err:       OwnershipMismatch("Category does not belong to this language"),
			target:    ErrOwnership,
			wantMatch: true,
		},
		{
			name:      "InvalidCredentials wraps ErrInvalidCredentials",
			err:       InvalidCredentials(),
			target:    ErrInvalidCredentials,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("No token provided"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("Access denied. Admin only."),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("Snippet"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "InvalidCredentials does NOT match ErrUnauthenticated",
			err:       InvalidCredentials(),
			target:    ErrUnauthenticated,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsIs_SurvivesWrapping(t *testing.T) {
	// Services wrap domain errors with fmt.Errorf("...: %w", err); the
	// handler's status mapping must still see through.
	wrapped := fmt.Errorf("resolving hierarchy: %w", NotFound("Category"))

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("errors.Is() lost ErrNotFound through a fmt.Errorf wrap")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As() failed to recover *AppError through a wrap")
	}
	if appErr.Message != "Category not found" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Category not found")
	}
}

func TestNotFound_Message(t *testing.T) {
	tests := []struct {
		resource string
		want     string
	}{
		{"Language", "Language not found"},
		{"Category", "Category not found"},
		{"Snippet", "Snippet not found"},
		{"User", "User not found"},
	}

	for _, tt := range tests {
		got := NotFound(tt.resource).Error()
		if got != tt.want {
			t.Errorf("NotFound(%q).Error() = %q, want %q", tt.resource, got, tt.want)
		}
	}
}

func TestInvalidCredentials_GenericMessage(t *testing.T) {
	// The message must not hint at which check failed.
	if got := InvalidCredentials().Error(); got != "Invalid credentials" {
		t.Errorf("InvalidCredentials().Error() = %q, want %q", got, "Invalid credentials")
	}
}

func TestValidationFailed_CarriesField(t *testing.T) {
	err := ValidationFailed("title", "snippet title is required")

	if err.Field != "title" {
		t.Errorf("Field = %q, want %q", err.Field, "title")
	}
	if err.Error() != "snippet title is required" {
		t.Errorf("Error() = %q, want %q", err.Error(), "snippet title is required")
	}
}
