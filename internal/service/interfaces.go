package service

import (
	"context"
	"time"

	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/types"
)

// DraftStore keeps paused generations until the caller confirms or dismisses.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *Draft) error
	GetDraft(ctx context.Context, id string) (*Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// SummaryCache holds quick-view summaries keyed by recipe ID.
type SummaryCache interface {
	Get(ctx context.Context, recipeID string) (string, bool, error)
	Set(ctx context.Context, recipeID, summary string) error
}

// TokenDenylist records revoked token IDs until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// IdentityVerifier turns a bearer token into the caller's identity.
type IdentityVerifier interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// Notifier delivers feedback notifications to the site administrator.
type Notifier interface {
	SendFeedbackNotification(recipe *models.Recipe, feedback *models.Feedback) error
}
