package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/repository"
	"github.com/ecochef/ecochef/backend/internal/types"
)

// Generation outcomes reported to the caller.
const (
	StatusCompleted            = "completed"
	StatusConfirmationRequired = "confirmation_required"
)

// GenerationRequest is one user ask for recipes. It is never stored on its
// own; drafts carry a copy until they are resolved.
type GenerationRequest struct {
	Ingredients         string `json:"ingredients" validate:"required,max=1000"`
	DietaryRestrictions string `json:"dietary_restrictions" validate:"max=100"`
	CookingTime         string `json:"cooking_time" validate:"omitempty,oneof=any quick medium long"`
	Strict              bool   `json:"strict"`
}

// Draft is a generation paused at the confirmation gate.
type Draft struct {
	ID                 string            `json:"id"`
	Request            GenerationRequest `json:"request"`
	Recipes            []models.Recipe   `json:"recipes"`
	MissingIngredients []string          `json:"missing_ingredients"`
	UserID             string            `json:"user_id"`
	CreatedAt          time.Time         `json:"created_at"`
}

type GenerationResult struct {
	Status             string          `json:"status"`
	DraftID            string          `json:"draft_id,omitempty"`
	Recipes            []models.Recipe `json:"recipes"`
	MissingIngredients []string        `json:"missing_ingredients,omitempty"`
}

// GenerationService runs validate, prompt, generate and the confirmation gate.
type GenerationService struct {
	generator RecipeGenerator
	prompts   *PromptFormatter
	store     repository.RecipeStore
	drafts    DraftStore
	logger    *zap.Logger
}

func NewGenerationService(generator RecipeGenerator, prompts *PromptFormatter, store repository.RecipeStore, drafts DraftStore, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		generator: generator,
		prompts:   prompts,
		store:     store,
		drafts:    drafts,
		logger:    logger.Named("generation"),
	}
}

// ownerID is the user a recipe or draft belongs to; unauthenticated callers
// share the guest identity.
func ownerID(identity *types.TokenClaims) string {
	if identity == nil || identity.UserID == "" {
		return models.GuestUserID
	}
	return identity.UserID
}

// Generate validates the request and asks the model for recipes. When the
// candidates need ingredients the user did not list, nothing is stored and a
// draft is returned for confirmation.
func (s *GenerationService) Generate(ctx context.Context, req GenerationRequest, identity *types.TokenClaims) (*GenerationResult, error) {
	req, err := ValidateGenerationRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkDiet(ctx, req); err != nil {
		return nil, err
	}

	recipes, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	decision := Evaluate(req, recipes)
	if !decision.RequiresConfirmation {
		return s.persist(ctx, recipes, ownerID(identity))
	}

	draft := &Draft{
		ID:                 uuid.NewString(),
		Request:            req,
		Recipes:            recipes,
		MissingIngredients: decision.MissingIngredients,
		UserID:             ownerID(identity),
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	s.logger.Info("generation paused for confirmation",
		zap.String("draft_id", draft.ID),
		zap.Int("missing", len(draft.MissingIngredients)))

	return &GenerationResult{
		Status:             StatusConfirmationRequired,
		DraftID:            draft.ID,
		Recipes:            recipes,
		MissingIngredients: decision.MissingIngredients,
	}, nil
}

// Confirm regenerates strictly with the accepted ingredients added and stores
// the result. An empty selection regenerates on the original ingredients.
func (s *GenerationService) Confirm(ctx context.Context, draftID string, accepted []string, identity *types.TokenClaims) (*GenerationResult, error) {
	draft, err := s.ownedDraft(ctx, draftID, identity)
	if err != nil {
		return nil, err
	}

	req, err := ApplySelection(draft.Request, draft.MissingIngredients, accepted)
	if err != nil {
		return nil, err
	}
	recipes, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := s.persist(ctx, recipes, draft.UserID)
	if err != nil {
		return nil, err
	}
	s.discard(ctx, draft.ID)
	return result, nil
}

// Dismiss keeps the first-pass candidates exactly as generated.
func (s *GenerationService) Dismiss(ctx context.Context, draftID string, identity *types.TokenClaims) (*GenerationResult, error) {
	draft, err := s.ownedDraft(ctx, draftID, identity)
	if err != nil {
		return nil, err
	}
	result, err := s.persist(ctx, draft.Recipes, draft.UserID)
	if err != nil {
		return nil, err
	}
	s.discard(ctx, draft.ID)
	return result, nil
}

func (s *GenerationService) checkDiet(ctx context.Context, req GenerationRequest) error {
	diet := strings.ToLower(req.DietaryRestrictions)
	if diet == "" || diet == "none" {
		return nil
	}
	prompt, err := s.prompts.DietPrompt(req)
	if err != nil {
		return err
	}
	check, err := s.generator.ValidateDiet(ctx, prompt)
	if err != nil {
		return err
	}
	if !check.IsValid {
		reason := check.Reason
		if reason == "" {
			reason = fmt.Sprintf("ingredients do not comply with the %s restriction", req.DietaryRestrictions)
		}
		return fieldError("ingredients", reason)
	}
	return nil
}

func (s *GenerationService) generate(ctx context.Context, req GenerationRequest) ([]models.Recipe, error) {
	prompt, err := s.prompts.RecipePrompt(req)
	if err != nil {
		return nil, err
	}
	recipes, err := s.generator.GenerateRecipes(ctx, prompt)
	if err != nil {
		return nil, err
	}
	sanitizeMissing(req, recipes)

	if req.Strict {
		if leftover := MissingIngredientUnion(recipes); len(leftover) > 0 {
			s.logger.Warn("strict generation still reported missing ingredients",
				zap.Strings("missing", leftover))
		}
	}
	return recipes, nil
}

func (s *GenerationService) persist(ctx context.Context, recipes []models.Recipe, userID string) (*GenerationResult, error) {
	batch := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		recipes[i].ID = ""
		recipes[i].UserID = userID
		batch[i] = &recipes[i]
	}
	if err := s.store.InsertRecipes(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to save generated recipes: %w", err)
	}
	return &GenerationResult{Status: StatusCompleted, Recipes: recipes}, nil
}

func (s *GenerationService) ownedDraft(ctx context.Context, draftID string, identity *types.TokenClaims) (*Draft, error) {
	draft, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != ownerID(identity) {
		return nil, ErrForbidden
	}
	return draft, nil
}

func (s *GenerationService) discard(ctx context.Context, id string) {
	if err := s.drafts.DeleteDraft(ctx, id); err != nil && !errors.Is(err, ErrDraftNotFound) {
		s.logger.Warn("failed to delete resolved draft", zap.String("draft_id", id), zap.Error(err))
	}
}
