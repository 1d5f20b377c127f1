package identity

import (
	"context"
	"testing"
	"time"

	"github.com/optica/backend/internal/domain/shared"
	"github.com/optica/backend/internal/infrastructure/auth"
	"github.com/optica/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthService(users *MockUserRepository) (*AuthService, *auth.JWTService, *auth.InMemoryTokenBlacklist) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "optica-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	userService := NewUserService(users, new(MockRoleRepository), zap.NewNop())
	return NewAuthService(userService, jwtService, blacklist, zap.NewNop()), jwtService, blacklist
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, jwtService, _ := newTestAuthService(users)
	users.On("FindByUsername", ctx, "vendedor1").Return(newTestUser(t, 3, "correcto123", adminRole), nil)

	result, err := svc.Login(ctx, LoginRequest{Username: "vendedor1", Password: "correcto123"})

	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "Administrador", result.User.Role)

	claims, err := jwtService.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, "Administrador", claims.Role)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, _, _ := newTestAuthService(users)
	users.On("FindByUsername", ctx, "vendedor1").Return(newTestUser(t, 3, "correcto123", sellerRole), nil)

	_, err := svc.Login(ctx, LoginRequest{Username: "vendedor1", Password: "otra-clave"})

	de, ok := shared.IsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_CREDENTIALS", de.Code)
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, jwtService, _ := newTestAuthService(users)
	user := newTestUser(t, 3, "correcto123", sellerRole)
	users.On("FindByUsername", ctx, "vendedor1").Return(user, nil)
	users.On("FindByID", ctx, int64(3)).Return(user, nil)

	login, err := svc.Login(ctx, LoginRequest{Username: "vendedor1", Password: "correcto123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	claims, err := jwtService.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Vendedor", claims.Role)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	de, ok := shared.IsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "TOKEN_REVOKED", de.Code)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, jwtService, blacklist := newTestAuthService(users)
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{UserID: 3, Username: "vendedor1", Role: "Vendedor"})
	require.NoError(t, err)
	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}
