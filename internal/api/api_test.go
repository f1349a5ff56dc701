package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/api"
	"github.com/ecochef/ecochef/backend/internal/mocks"
	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/repository"
	"github.com/ecochef/ecochef/backend/internal/router"
	"github.com/ecochef/ecochef/backend/internal/service"
	"github.com/ecochef/ecochef/backend/internal/testhelpers"
	"github.com/ecochef/ecochef/backend/internal/types"
)

const adminEmail = "admin@ecochef.test"

type testServer struct {
	router    *gin.Engine
	store     *repository.GormStore
	generator *mocks.MockRecipeGenerator
	notifier  *mocks.MockNotifier
	drafts    *mocks.DraftStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store := repository.NewGormStore(testhelpers.NewSQLiteDB(t))
	generator := new(mocks.MockRecipeGenerator)
	notifier := new(mocks.MockNotifier)
	drafts := mocks.NewDraftStore()
	prompts, err := service.NewPromptFormatter()
	require.NoError(t, err)

	authService := service.NewAuthService(store, mocks.NewTokenDenylist(), "test-secret", adminEmail)
	generation := service.NewGenerationService(generator, prompts, store, drafts, logger)
	recipes := service.NewRecipeService(store, generator, prompts, nil, logger)
	feedback := service.NewFeedbackService(store, notifier, logger)

	engine := router.SetupRouter(router.Dependencies{
		Auth:      api.NewAuthHandler(authService, logger),
		LLM:       api.NewLLMHandler(generation, service.NewFinetuneService(), logger),
		Recipes:   api.NewRecipeHandler(recipes, logger),
		Feedback:  api.NewFeedbackHandler(feedback, logger),
		Validator: authService,
		Health: map[string]api.Pinger{
			"database": store,
		},
		CORSOrigins: []string{"http://localhost:3000"},
		Logger:      logger,
	})

	return &testServer{router: engine, store: store, generator: generator, notifier: notifier, drafts: drafts}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// signUp registers an account and returns its bearer token.
func (s *testServer) signUp(t *testing.T, name, email string) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", types.SignUpRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp types.AuthResponse
	decode(t, rr, &resp)
	return resp.Token
}

func (s *testServer) seedRecipe(t *testing.T, name string) models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:         name,
		Ingredients:  models.JSONBStringArray{"rice", "beans"},
		Instructions: models.JSONBStringArray{"Cook everything."},
		CookingTime:  "30 minutes",
		Tags:         models.JSONBStringArray{"dinner"},
		UserID:       models.GuestUserID,
	}
	require.NoError(t, s.store.InsertRecipes(t.Context(), []*models.Recipe{recipe}))
	return *recipe
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

func candidates(missing ...string) []models.Recipe {
	names := []string{"Rice Bowl", "Bean Stew", "Fried Rice"}
	out := make([]models.Recipe, len(names))
	for i, name := range names {
		out[i] = models.Recipe{
			Name:               name,
			Ingredients:        models.JSONBStringArray{"rice", "beans"},
			MissingIngredients: models.JSONBStringArray(missing),
			Instructions:       models.JSONBStringArray{"Cook.", "Serve."},
			CookingTime:        "20 minutes",
		}
	}
	return out
}

var anyCtx = mock.Anything
