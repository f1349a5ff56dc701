package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/service"
	"github.com/ecochef/ecochef/backend/internal/types"
)

const claimsKey = "claims"

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// bearerToken extracts the token from the Authorization header. ok is false
// when the header is absent; a present but malformed header yields an error
// message.
func bearerToken(c *gin.Context) (token string, ok bool, errMsg string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false, ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", true, "invalid authorization header format"
	}
	return parts[1], true, ""
}

// authenticate answers 401 only for tokens the validator rejects. Any other
// failure means the identity backend is unreachable and is reported as 503.
func authenticate(c *gin.Context, validator TokenValidator, logger *zap.Logger, required bool) {
	token, present, errMsg := bearerToken(c)
	if !present {
		if required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		c.Next()
		return
	}
	if errMsg != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
		return
	}

	claims, err := validator.ValidateToken(c.Request.Context(), token)
	if errors.Is(err, service.ErrInvalidToken) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	if err != nil {
		logger.Error("token validation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Sign-in is temporarily unavailable. Please try again."})
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(validator TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, validator, logger, true)
	}
}

// OptionalAuth identifies the caller when a token is sent. A token that is
// sent but invalid is still rejected.
func OptionalAuth(validator TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, validator, logger, false)
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetClaims(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// GetClaims returns the authenticated caller or nil for guests.
func GetClaims(c *gin.Context) *types.TokenClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*types.TokenClaims)
	return claims
}
