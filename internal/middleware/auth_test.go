package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ecochef/ecochef/backend/internal/service"
	"github.com/ecochef/ecochef/backend/internal/types"
)

type fakeValidator map[string]*types.TokenClaims

func (f fakeValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	if token == "unreachable-token" {
		return nil, errors.New("failed to check token revocation: dial tcp: connection refused")
	}
	return nil, service.ErrInvalidToken
}

var validator = fakeValidator{
	"user-token":  {UserID: "u1", Role: "user"},
	"admin-token": {UserID: "a1", Role: "admin"},
}

func newAuthRouter() *gin.Engine {
	return newAuthRouterWithLogger(zap.NewNop())
}

func newAuthRouterWithLogger(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.JSON(http.StatusOK, gin.H{"user_id": "guest"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	}
	r.GET("/required", AuthMiddleware(validator, logger), whoami)
	r.GET("/optional", OptionalAuth(validator, logger), whoami)
	r.GET("/admin", AuthMiddleware(validator, logger), RequireAdmin(), whoami)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthRouter()

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"required without header", "/required", "", http.StatusUnauthorized, ""},
		{"required with bad format", "/required", "Token user-token", http.StatusUnauthorized, ""},
		{"required with invalid token", "/required", "Bearer nope", http.StatusUnauthorized, ""},
		{"required with valid token", "/required", "Bearer user-token", http.StatusOK, `{"user_id":"u1"}`},
		{"optional as guest", "/optional", "", http.StatusOK, `{"user_id":"guest"}`},
		{"optional with valid token", "/optional", "Bearer user-token", http.StatusOK, `{"user_id":"u1"}`},
		{"optional with invalid token", "/optional", "Bearer nope", http.StatusUnauthorized, ""},
		{"admin as user", "/admin", "Bearer user-token", http.StatusForbidden, ""},
		{"admin as admin", "/admin", "Bearer admin-token", http.StatusOK, `{"user_id":"a1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			} else {
				assert.Contains(t, rr.Body.String(), `"error"`)
			}
		})
	}
}

func TestAuthMiddlewareBackendFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	router := newAuthRouterWithLogger(zap.New(core))

	for _, path := range []string{"/required", "/optional"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Authorization", "Bearer unreachable-token")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
			assert.NotContains(t, rr.Body.String(), "invalid or expired token")
		})
	}

	entries := logs.FilterMessage("token validation failed").All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].ContextMap()["error"], "connection refused")
}
