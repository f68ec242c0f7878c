package services

import (
	"context"
	"testing"
	"time"

	"IndoHomz/internal/repositories"
	"IndoHomz/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (AuthService, repositories.AdminRepository) {
	t.Helper()
	f := newFixture(t)
	admins := repositories.NewAdminRepository(f.db)
	return NewAuthService(admins, "test-secret", time.Hour, 24*time.Hour), admins
}

func TestAuthService_CreateAdminAndLogin(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth(t)

	_, _, err := auth.CreateAdmin(ctx, "admin@indohomz.com", "weak", "")
	assert.ErrorIs(t, err, utils.ErrWeakPassword)

	a, created, err := auth.CreateAdmin(ctx, "Admin@IndoHomz.com", "Secret123", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@indohomz.com", a.Email)
	assert.Equal(t, "Administrator", a.Name)

	_, _, err = auth.Login(ctx, "admin@indohomz.com", "wrong")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, "ghost@indohomz.com", "Secret123")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	got, tokens, err := auth.Login(ctx, "admin@indohomz.com", "Secret123")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Equal(t, 3600, tokens.ExpiresIn)

	claims, err := auth.ParseAccess(tokens.AccessToken)
	require.NoError(t, err)
	id, err := claims.AdminID()
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = auth.ParseAccess(tokens.RefreshToken)
	assert.ErrorIs(t, err, utils.ErrInvalidToken, "refresh token is not an access token")

	fresh, err := auth.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = auth.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestAuthService_ReactivatesExistingAdmin(t *testing.T) {
	ctx := context.Background()
	auth, admins := newAuth(t)

	a, _, err := auth.CreateAdmin(ctx, "ops@indohomz.com", "Secret123", "Ops")
	require.NoError(t, err)
	a.IsActive = false
	require.NoError(t, admins.Save(ctx, a))

	_, _, err = auth.Login(ctx, "ops@indohomz.com", "Secret123")
	assert.ErrorIs(t, err, utils.ErrAccountDisabled)

	again, created, err := auth.CreateAdmin(ctx, "ops@indohomz.com", "NewSecret456", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, a.ID, again.ID)
	assert.Equal(t, "Ops", again.Name)

	_, _, err = auth.Login(ctx, "ops@indohomz.com", "NewSecret456")
	assert.NoError(t, err)
}

func TestAuthService_RejectsForeignAndExpiredTokens(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth(t)
	_, _, err := auth.CreateAdmin(ctx, "admin@indohomz.com", "Secret123", "")
	require.NoError(t, err)
	_, tokens, err := auth.Login(ctx, "admin@indohomz.com", "Secret123")
	require.NoError(t, err)

	other := NewAuthService(nil, "another-secret", time.Hour, time.Hour)
	_, err = other.ParseAccess(tokens.AccessToken)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	s := auth.(*authService)
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = auth.ParseAccess(tokens.AccessToken)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	_, err = auth.ParseAccess("not-a-jwt")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}
