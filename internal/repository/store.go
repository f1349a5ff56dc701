// Package repository persists recipes, favorites, feedback and users.
package repository

import (
	"context"
	"errors"

	"github.com/ecochef/ecochef/backend/internal/models"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// RecipeStore covers the recipes, favorites and feedback collections.
type RecipeStore interface {
	InsertRecipes(ctx context.Context, recipes []*models.Recipe) error
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	// ListRecipes returns recipes newest first.
	ListRecipes(ctx context.Context, filters models.RecipeFilters) ([]models.Recipe, error)
	// DeleteRecipe removes the recipe along with its feedback and favorites.
	DeleteRecipe(ctx context.Context, id string) error

	// AddFavorite reports whether a new favorite record was created.
	AddFavorite(ctx context.Context, userID, recipeID string) (bool, error)
	// RemoveFavorite reports whether a favorite record was removed.
	RemoveFavorite(ctx context.Context, userID, recipeID string) (bool, error)
	FavoriteIDs(ctx context.Context, userID string) ([]string, error)
	// ListFavorites returns the user's favorite recipes, most recently favorited first.
	ListFavorites(ctx context.Context, userID string) ([]models.Recipe, error)

	InsertFeedback(ctx context.Context, feedback *models.Feedback) error
	ListFeedback(ctx context.Context, filters models.FeedbackFilters) ([]models.Feedback, error)
	RatingSummary(ctx context.Context, recipeID string) (*models.RatingSummary, error)

	Ping(ctx context.Context) error
}

// UserStore is the identity store behind sign-up and sign-in.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

func pageSize(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageSize
	case limit > maxPageSize:
		return maxPageSize
	}
	return limit
}
