package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/auth"
)

func newTestAuth(env *testEnv) AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "uniportal-test",
	})
	return NewAuthService(env.store.Users, env.store.Tokens, jwtService, auth.NewPasswordHasher(bcrypt.MinCost))
}

func TestAuth_RegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)

	reg, err := svc.Register(env.ctx, &dto.RegisterRequest{
		Email:     "New.Student@Uni.edu",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "Student",
		Section:   " A ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, reg.User.Role)
	assert.Equal(t, "new.student@uni.edu", reg.User.Email)
	assert.Equal(t, "A", reg.User.Section)
	assert.Equal(t, "Bearer", reg.Token.TokenType)

	_, err = svc.Register(env.ctx, &dto.RegisterRequest{Email: "new.student@uni.edu", Password: "secret123", FirstName: "x", LastName: "y"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = svc.Login(env.ctx, &dto.LoginRequest{Email: "new.student@uni.edu", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	login, err := svc.Login(env.ctx, &dto.LoginRequest{Email: "new.student@uni.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.LastLoginAt)

	user, claims, err := svc.ResolveSession(env.ctx, login.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)

	require.NoError(t, svc.Logout(env.ctx, claims))
	_, _, err = svc.ResolveSession(env.ctx, login.Token.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestAuth_ResolveSessionFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)

	_, _, err := svc.ResolveSession(env.ctx, "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	reg, err := svc.Register(env.ctx, &dto.RegisterRequest{Email: "s@uni.edu", Password: "secret123", FirstName: "S", LastName: "T"})
	require.NoError(t, err)

	env.db.FailAfter("tokens.is_revoked", 0, errors.New("db down"))
	_, _, err = svc.ResolveSession(env.ctx, reg.Token.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestAuth_InactiveUser(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(env)

	reg, err := svc.Register(env.ctx, &dto.RegisterRequest{Email: "s@uni.edu", Password: "secret123", FirstName: "S", LastName: "T"})
	require.NoError(t, err)

	user, err := env.store.Users.GetByID(env.ctx, reg.User.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, env.store.Users.Update(env.ctx, user))

	_, _, err = svc.ResolveSession(env.ctx, reg.Token.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.Login(env.ctx, &dto.LoginRequest{Email: "s@uni.edu", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}
