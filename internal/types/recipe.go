package types

import (
	"github.com/ecochef/ecochef/backend/internal/models"
)

// RecipeResponse is a stored recipe annotated for the caller.
type RecipeResponse struct {
	models.Recipe
	IsFavorited bool                  `json:"is_favorited"`
	Rating      *models.RatingSummary `json:"rating,omitempty"`
}

type RecipeListResponse struct {
	Recipes []RecipeResponse `json:"recipes"`
}

type FeedbackListResponse struct {
	Feedback []models.Feedback `json:"feedback"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type FinetuneResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Model      string  `json:"model"`
}

type FavoriteToggleResponse struct {
	RecipeID    string `json:"recipe_id"`
	IsFavorited bool   `json:"is_favorited"`
}
