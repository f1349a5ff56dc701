package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/repository"
	"github.com/ecochef/ecochef/backend/internal/types"
)

type RecipeService struct {
	store     repository.RecipeStore
	generator RecipeGenerator
	prompts   *PromptFormatter
	summaries SummaryCache
	logger    *zap.Logger
}

func NewRecipeService(store repository.RecipeStore, generator RecipeGenerator, prompts *PromptFormatter, summaries SummaryCache, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		store:     store,
		generator: generator,
		prompts:   prompts,
		summaries: summaries,
		logger:    logger.Named("recipes"),
	}
}

// ListRecipes returns recipes newest first, flagging the caller's favorites.
func (s *RecipeService) ListRecipes(ctx context.Context, filters models.RecipeFilters, identity *types.TokenClaims) ([]types.RecipeResponse, error) {
	recipes, err := s.store.ListRecipes(ctx, filters)
	if err != nil {
		return nil, err
	}

	favorites := map[string]bool{}
	if identity != nil {
		ids, err := s.store.FavoriteIDs(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			favorites[id] = true
		}
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, types.RecipeResponse{Recipe: r, IsFavorited: favorites[r.ID]})
	}
	return out, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id string, identity *types.TokenClaims) (*types.RecipeResponse, error) {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	rating, err := s.store.RatingSummary(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &types.RecipeResponse{Recipe: *recipe, Rating: rating}
	if identity != nil {
		ids, err := s.store.FavoriteIDs(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		for _, fid := range ids {
			if fid == id {
				resp.IsFavorited = true
				break
			}
		}
	}
	return resp, nil
}

// CreateRecipe stores a recipe written by an administrator.
func (s *RecipeService) CreateRecipe(ctx context.Context, req types.CreateRecipeRequest, identity *types.TokenClaims) (*models.Recipe, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	recipe := &models.Recipe{
		Name:               strings.TrimSpace(req.Name),
		Ingredients:        cleanList(req.Ingredients),
		Instructions:       cleanList(req.Instructions),
		CookingTime:        strings.TrimSpace(req.CookingTime),
		DietaryInformation: strings.TrimSpace(req.DietaryInformation),
		Tags:               cleanList(req.Tags),
		MissingIngredients: models.JSONBStringArray{},
		UserID:             identity.UserID,
	}
	if err := checkCandidate(*recipe); err != nil {
		return nil, fieldError("recipe", err.Error())
	}
	if err := s.store.InsertRecipes(ctx, []*models.Recipe{recipe}); err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe with its feedback and favorites.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string, identity *types.TokenClaims) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	s.logger.Info("recipe deleted", zap.String("recipe_id", id), zap.String("by", identity.UserID))
	return nil
}

// FavoriteRecipe is idempotent; it reports whether a new favorite was created.
func (s *RecipeService) FavoriteRecipe(ctx context.Context, userID, recipeID string) (bool, error) {
	if _, err := s.store.GetRecipe(ctx, recipeID); err != nil {
		return false, err
	}
	return s.store.AddFavorite(ctx, userID, recipeID)
}

func (s *RecipeService) UnfavoriteRecipe(ctx context.Context, userID, recipeID string) (bool, error) {
	return s.store.RemoveFavorite(ctx, userID, recipeID)
}

// ToggleFavorite flips the favorite state and returns the new one.
func (s *RecipeService) ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	removed, err := s.store.RemoveFavorite(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}
	if _, err := s.FavoriteRecipe(ctx, userID, recipeID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RecipeService) GetFavoriteRecipes(ctx context.Context, userID string) ([]types.RecipeResponse, error) {
	recipes, err := s.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]types.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, types.RecipeResponse{Recipe: r, IsFavorited: true})
	}
	return out, nil
}

// Summarize returns a short quick-view description, served from cache when
// possible. Cache failures are logged and never fail the request.
func (s *RecipeService) Summarize(ctx context.Context, recipeID string) (string, error) {
	if s.summaries != nil {
		summary, ok, err := s.summaries.Get(ctx, recipeID)
		if err != nil {
			s.logger.Warn("summary cache read failed", zap.String("recipe_id", recipeID), zap.Error(err))
		} else if ok {
			return summary, nil
		}
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return "", err
	}
	prompt, err := s.prompts.SummaryPrompt(recipe)
	if err != nil {
		return "", err
	}
	summary, err := s.generator.Summarize(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to summarize recipe: %w", err)
	}

	if s.summaries != nil {
		if err := s.summaries.Set(ctx, recipeID, summary); err != nil {
			s.logger.Warn("summary cache write failed", zap.String("recipe_id", recipeID), zap.Error(err))
		}
	}
	return summary, nil
}
