package service

import (
	"context"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/repository"
	"github.com/ecochef/ecochef/backend/internal/types"
)

// AnonymousNames label feedback left without signing in.
var AnonymousNames = []string{
	"Anonymous Artichoke",
	"Mysterious Mushroom",
	"Secretive Shallot",
	"Incognito Ingredient",
	"Unnamed Umami",
	"Hidden Herb",
	"Classified Caraway",
	"Covert Cilantro",
	"Private Parsley",
}

type FeedbackService struct {
	store    repository.RecipeStore
	notifier Notifier
	logger   *zap.Logger
}

func NewFeedbackService(store repository.RecipeStore, notifier Notifier, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		store:    store,
		notifier: notifier,
		logger:   logger.Named("feedback"),
	}
}

// CreateFeedback validates and stores a rating, then notifies the admin. A
// failed notification is logged and does not fail the submission.
func (s *FeedbackService) CreateFeedback(ctx context.Context, recipeID string, req types.CreateFeedbackRequest, identity *types.TokenClaims) (*models.Feedback, error) {
	in := feedbackInput{Rating: req.Rating, Comment: strings.TrimSpace(req.Comment)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		RecipeID: recipeID,
		Rating:   in.Rating,
		Comment:  in.Comment,
		UserID:   models.GuestUserID,
		UserName: AnonymousNames[rand.IntN(len(AnonymousNames))],
	}
	if identity != nil {
		feedback.UserID = identity.UserID
		if name := identity.DisplayName(); name != "" {
			feedback.UserName = name
		}
	}

	if err := s.store.InsertFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.SendFeedbackNotification(recipe, feedback); err != nil {
			s.logger.Warn("failed to send feedback notification",
				zap.String("feedback_id", feedback.ID),
				zap.Error(err))
		}
	}
	return feedback, nil
}

// ListFeedback returns feedback newest first, for one recipe when RecipeID is set.
func (s *FeedbackService) ListFeedback(ctx context.Context, filters models.FeedbackFilters) ([]models.Feedback, error) {
	if filters.RecipeID != "" {
		if _, err := s.store.GetRecipe(ctx, filters.RecipeID); err != nil {
			return nil, err
		}
	}
	return s.store.ListFeedback(ctx, filters)
}

func (s *FeedbackService) RatingSummary(ctx context.Context, recipeID string) (*models.RatingSummary, error) {
	return s.store.RatingSummary(ctx, recipeID)
}
