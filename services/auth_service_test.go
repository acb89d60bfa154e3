package services

import (
	"context"
	"testing"
	"time"

	"food-order/models"
	"food-order/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() *AuthService {
	return NewAuthService(memUserStore{newMemoryDB()}, utils.NewTokenManager("test-secret", time.Hour), utils.NewPasswordHasher(1, 8*1024, 1))
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()

	user, token, err := auth.Register(ctx, models.RegisterRequest{Name: "Asha", Email: " Asha@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.NotEmpty(t, token)

	identity, err := auth.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{UserID: user.ID, Email: "asha@example.com"}, identity)

	loggedIn, _, err := auth.Login(ctx, models.LoginRequest{Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	profile, err := auth.Profile(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.Name)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()

	_, _, err := auth.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = auth.Register(ctx, models.RegisterRequest{Name: "Other", Email: "ASHA@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()

	_, _, err := auth.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, models.LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "invalid email or password")

	_, _, err = auth.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	_, err := newAuthService().Authenticate("not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}
