package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/service"
)

// MockRecipeGenerator is a mock implementation of service.RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

func (m *MockRecipeGenerator) GenerateRecipes(ctx context.Context, prompt service.Prompt) ([]models.Recipe, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeGenerator) ValidateDiet(ctx context.Context, prompt service.Prompt) (*service.DietCheck, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DietCheck), args.Error(1)
}

func (m *MockRecipeGenerator) Summarize(ctx context.Context, prompt service.Prompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockNotifier is a mock implementation of service.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendFeedbackNotification(recipe *models.Recipe, feedback *models.Feedback) error {
	args := m.Called(recipe, feedback)
	return args.Error(0)
}

// StrictPrompt matches recipe prompts built for strict regeneration.
func StrictPrompt(strict bool) interface{} {
	return mock.MatchedBy(func(p service.Prompt) bool {
		return p.Kind == service.PromptRecipes && p.Request.Strict == strict
	})
}

// PromptOfKind matches any prompt of the given kind.
func PromptOfKind(kind service.PromptKind) interface{} {
	return mock.MatchedBy(func(p service.Prompt) bool {
		return p.Kind == kind
	})
}
