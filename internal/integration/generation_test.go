// Package integration drives the HTTP API against real PostgreSQL and Redis
// containers with a mocked generation provider.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/api"
	"github.com/ecochef/ecochef/backend/internal/middleware"
	"github.com/ecochef/ecochef/backend/internal/mocks"
	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/repository"
	"github.com/ecochef/ecochef/backend/internal/router"
	"github.com/ecochef/ecochef/backend/internal/service"
	"github.com/ecochef/ecochef/backend/internal/testhelpers"
	"github.com/ecochef/ecochef/backend/internal/types"
)

type stack struct {
	router    *gin.Engine
	generator *mocks.MockRecipeGenerator
}

func setupStack(t *testing.T, guestLimit int) *stack {
	if testing.Short() {
		t.Skip("skipping container-backed integration test in short mode")
	}
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store := repository.NewGormStore(testhelpers.SetupTestDatabase(t))
	rdb := testhelpers.SetupTestRedis(t)
	generator := new(mocks.MockRecipeGenerator)
	notifier := new(mocks.MockNotifier)
	notifier.On("SendFeedbackNotification", mock.Anything, mock.Anything).Return(nil).Maybe()

	prompts, err := service.NewPromptFormatter()
	require.NoError(t, err)

	authService := service.NewAuthService(store, service.NewRedisTokenDenylist(rdb), "integration-secret", "")
	generation := service.NewGenerationService(generator, prompts, store, service.NewRedisDraftStore(rdb), logger)
	recipes := service.NewRecipeService(store, generator, prompts, service.NewRedisSummaryCache(rdb), logger)

	engine := router.SetupRouter(router.Dependencies{
		Auth:       api.NewAuthHandler(authService, logger),
		LLM:        api.NewLLMHandler(generation, service.NewFinetuneService(), logger),
		Recipes:    api.NewRecipeHandler(recipes, logger),
		Feedback:   api.NewFeedbackHandler(service.NewFeedbackService(store, notifier, logger), logger),
		Validator:  authService,
		GuestQuota: middleware.NewGuestGenerationLimiter(rdb, guestLimit, logger),
		Health:     map[string]api.Pinger{"database": store},
		Logger:     logger,
	})
	return &stack{router: engine, generator: generator}
}

func (s *stack) post(t *testing.T, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.10:5000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func candidates(missing ...string) []models.Recipe {
	out := make([]models.Recipe, 0, service.MaxCandidates)
	for _, name := range []string{"Skillet Hash", "Potato Soup", "Roast Roots"} {
		out = append(out, models.Recipe{
			Name:               name,
			Ingredients:        models.JSONBStringArray{"potatoes", "onion"},
			MissingIngredients: models.JSONBStringArray(missing),
			Instructions:       models.JSONBStringArray{"Chop.", "Cook."},
			CookingTime:        "35 minutes",
		})
	}
	return out
}

func TestConfirmationRoundTrip(t *testing.T) {
	s := setupStack(t, 10)

	s.generator.On("GenerateRecipes", mock.Anything, mocks.StrictPrompt(false)).Return(candidates("leek"), nil).Once()
	s.generator.On("GenerateRecipes", mock.Anything, mocks.StrictPrompt(true)).Return(candidates(), nil).Once()

	signup := s.post(t, "/api/v1/auth/signup", "", types.SignUpRequest{Name: "Tester", Email: "tester@example.com", Password: "password123"})
	require.Equal(t, http.StatusCreated, signup.Code, signup.Body.String())
	var auth types.AuthResponse
	require.NoError(t, json.Unmarshal(signup.Body.Bytes(), &auth))

	rr := s.post(t, "/api/v1/generations", auth.Token, types.GenerateRecipeRequest{Ingredients: "potatoes, onion"})
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	var pending service.GenerationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	assert.Equal(t, []string{"leek"}, pending.MissingIngredients)

	rr = s.post(t, "/api/v1/generations/"+pending.DraftID+"/confirm", auth.Token, types.ConfirmGenerationRequest{Accepted: []string{"leek"}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var done service.GenerationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &done))
	require.Len(t, done.Recipes, 3)
	for _, r := range done.Recipes {
		assert.Equal(t, auth.User.ID, r.UserID)
	}

	rr = s.post(t, "/api/v1/generations/"+pending.DraftID+"/confirm", auth.Token, types.ConfirmGenerationRequest{})
	assert.Equal(t, http.StatusNotFound, rr.Code, "a resolved draft cannot be replayed")
	s.generator.AssertExpectations(t)
}

func TestGuestQuotaAppliesToGenerations(t *testing.T) {
	s := setupStack(t, 1)
	s.generator.On("GenerateRecipes", mock.Anything, mock.Anything).Return(candidates(), nil)

	rr := s.post(t, "/api/v1/generations", "", types.GenerateRecipeRequest{Ingredients: "potatoes"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.post(t, "/api/v1/generations", "", types.GenerateRecipeRequest{Ingredients: "potatoes"})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestSignOutRevokesTokenAcrossRequests(t *testing.T) {
	s := setupStack(t, 10)

	signup := s.post(t, "/api/v1/auth/signup", "", types.SignUpRequest{Name: "Leaver", Email: "leaver@example.com", Password: "password123"})
	require.Equal(t, http.StatusCreated, signup.Code)
	var auth types.AuthResponse
	require.NoError(t, json.Unmarshal(signup.Body.Bytes(), &auth))

	rr := s.post(t, "/api/v1/auth/signout", auth.Token, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.post(t, "/api/v1/auth/signout", auth.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
