package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the token carries the admin role.
func (c *TokenClaims) IsAdmin() bool {
	return c != nil && c.Role == "admin"
}

// DisplayName is the name shown next to content the user creates.
func (c *TokenClaims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Email
}
