package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecochef/ecochef/backend/internal/api"
	"github.com/ecochef/ecochef/backend/internal/mocks"
	"github.com/ecochef/ecochef/backend/internal/repository"
	"github.com/ecochef/ecochef/backend/internal/service"
	"github.com/ecochef/ecochef/backend/internal/testhelpers"
	"github.com/ecochef/ecochef/backend/internal/types"
)

func TestAuthLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Ada", "Ada@Example.com")

	rr := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", types.SignUpRequest{
		Name: "Ada Again", Email: "ada@example.com", Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", types.SignInRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", types.SignInRequest{Email: "ada@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"ada@example.com"`)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = s.do(t, http.MethodPost, "/api/v1/auth/signout", token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "revoked token is rejected")
}

func TestMeForDeletedAccount(t *testing.T) {
	s := newTestServer(t)

	// A token signed with the same secret for an account this store never had.
	elsewhere := service.NewAuthService(
		repository.NewGormStore(testhelpers.NewSQLiteDB(t)), mocks.NewTokenDenylist(), "test-secret", "")
	resp, err := elsewhere.SignUp(context.Background(), types.SignUpRequest{
		Name: "Ghost", Email: "ghost@example.com", Password: "password123",
	})
	require.NoError(t, err)

	rr := s.do(t, http.MethodGet, "/api/v1/auth/me", resp.Token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rr.Body.String())
}

func TestSignUpValidation(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", types.SignUpRequest{Name: "A", Email: "nope", Password: "1"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"fields"`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", nil)
	req.Header.Set("Content-Type", "application/json")
	out := httptest.NewRecorder()
	s.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		deps     map[string]api.Pinger
		expected int
	}{
		{
			name: "all healthy",
			deps: map[string]api.Pinger{
				"database": api.PingFunc(func(context.Context) error { return nil }),
				"redis":    api.PingFunc(func(context.Context) error { return nil }),
			},
			expected: http.StatusOK,
		},
		{
			name: "redis down",
			deps: map[string]api.Pinger{
				"database": api.PingFunc(func(context.Context) error { return nil }),
				"redis":    api.PingFunc(func(context.Context) error { return errors.New("connection refused") }),
			},
			expected: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", api.HealthCheck(tt.deps))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.expected, rr.Code)
			assert.Contains(t, rr.Body.String(), `"redis"`)
		})
	}
}
