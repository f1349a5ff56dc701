package types

// GenerateRecipeRequest is the body of POST /generations.
type GenerateRecipeRequest struct {
	Ingredients         string `json:"ingredients"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	CookingTime         string `json:"cooking_time"`
	Strict              bool   `json:"strict"`
}

// ConfirmGenerationRequest carries the missing ingredients the user accepted.
type ConfirmGenerationRequest struct {
	Accepted []string `json:"accepted"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name               string   `json:"name" binding:"required,max=255"`
	Ingredients        []string `json:"ingredients" binding:"required,min=1,dive,required"`
	Instructions       []string `json:"instructions" binding:"required,min=1,dive,required"`
	CookingTime        string   `json:"cooking_time" binding:"required,max=100"`
	DietaryInformation string   `json:"dietary_information"`
	Tags               []string `json:"tags"`
}

// Feedback API types
type CreateFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type FinetuneRequest struct {
	Prompt string `json:"prompt"`
}
