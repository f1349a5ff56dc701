package service

import (
	"errors"
	"strings"

	"github.com/ecochef/ecochef/backend/internal/repository"
)

var (
	ErrRecipeNotFound     = repository.ErrRecipeNotFound
	ErrEmailTaken         = repository.ErrDuplicateEmail
	ErrUserNotFound       = repository.ErrUserNotFound
	ErrDraftNotFound      = errors.New("draft not found or expired")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrUpstream marks a failed call to the generation provider. Callers may
	// retry; nothing in this package does.
	ErrUpstream = errors.New("recipe generation service unavailable")
	// ErrDataContract marks provider output that does not match the recipe shape.
	ErrDataContract = errors.New("recipe generation returned malformed data")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned when user input is rejected before any
// network or storage call is made.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}
