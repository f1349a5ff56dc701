package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/types"
)

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (d *memDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = ttl
	return nil
}

func (d *memDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[jti]
	return ok, nil
}

func setupAuthTest(t *testing.T) (*AuthService, *memDenylist) {
	t.Helper()
	denylist := &memDenylist{revoked: map[string]time.Duration{}}
	return NewAuthService(newTestStore(t), denylist, "test-secret", "Chef@EcoChef.dev"), denylist
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	auth, _ := setupAuthTest(t)

	resp, err := auth.SignUp(ctx, types.SignUpRequest{Name: "Sam", Email: " Sam@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "sam@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEqual(t, "secret1", resp.User.PasswordHash)

	claims, err := auth.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "Sam", claims.Name)
	assert.NotEmpty(t, claims.ID)

	signIn, err := auth.SignIn(ctx, types.SignInRequest{Email: "SAM@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, signIn.User.ID)

	_, err = auth.SignIn(ctx, types.SignInRequest{Email: "sam@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.SignIn(ctx, types.SignInRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.SignUp(ctx, types.SignUpRequest{Name: "Sam Two", Email: "sam@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpValidation(t *testing.T) {
	auth, _ := setupAuthTest(t)

	_, err := auth.SignUp(context.Background(), types.SignUpRequest{Name: "S", Email: "bad", Password: "1"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestSignUpAdminEmail(t *testing.T) {
	auth, _ := setupAuthTest(t)

	resp, err := auth.SignUp(context.Background(), types.SignUpRequest{Name: "Chef", Email: "chef@ecochef.dev", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	claims, err := auth.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestSignOutRevokesToken(t *testing.T) {
	ctx := context.Background()
	auth, denylist := setupAuthTest(t)

	resp, err := auth.SignUp(ctx, types.SignUpRequest{Name: "Sam", Email: "sam@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, auth.SignOut(ctx, claims))
	assert.Greater(t, denylist.revoked[claims.ID], 23*time.Hour)

	_, err = auth.ValidateToken(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejects(t *testing.T) {
	ctx := context.Background()
	auth, _ := setupAuthTest(t)

	resp, err := auth.SignUp(ctx, types.SignUpRequest{Name: "Sam", Email: "sam@example.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ValidateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(newTestStore(t), &memDenylist{revoked: map[string]time.Duration{}}, "other-secret", "")
		_, err := other.ValidateToken(ctx, resp.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		auth.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
		defer func() { auth.now = time.Now }()
		_, err := auth.ValidateToken(ctx, resp.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, types.TokenClaims{UserID: "x"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = auth.ValidateToken(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestFinetunePredict(t *testing.T) {
	svc := NewFinetuneService()

	resp, err := svc.Predict("Suggest a vegan dessert")
	require.NoError(t, err)
	assert.Equal(t, `This is a fine-tuned response for the prompt: "Suggest a vegan dessert". The model has successfully processed your request.`, resp.Prediction)
	assert.Equal(t, FinetunedModelName, resp.Model)
	assert.GreaterOrEqual(t, resp.Confidence, 0.85)
	assert.Less(t, resp.Confidence, 0.99)

	_, err = svc.Predict("  ")
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "prompt", verrs[0].Field)
}
