package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/auth"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// AuthService handles registration, login and session resolution
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Logout revokes the token until it would have expired anyway
	Logout(ctx context.Context, claims *auth.Claims) error
	// ResolveSession turns a bearer token into an active user. Every failure,
	// including storage errors, is reported as ErrUnauthenticated.
	ResolveSession(ctx context.Context, token string) (*models.User, *auth.Claims, error)
	Me(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

type authServiceImpl struct {
	users      repositories.IUserRepository
	tokens     repositories.ITokenRepository
	jwtService *auth.JWTService
	hasher     *auth.PasswordHasher
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users repositories.IUserRepository,
	tokens repositories.ITokenRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
) AuthService {
	return &authServiceImpl{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
		hasher:     hasher,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      models.RoleStudent,
		Program:   strings.TrimSpace(req.Program),
		Semester:  req.Semester,
		Section:   strings.TrimSpace(req.Section),
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("Student registered")
	return s.issue(user)
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if !s.hasher.Verify(user.Password, req.Password) {
		logger.Info().Int64("userID", user.ID).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	now := timeNow()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	return s.issue(user)
}

func (s *authServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token.AccessToken,
			TokenType:   "Bearer",
			ExpiresIn:   token.ExpiresIn,
			ExpiresAt:   token.ExpiresAt,
		},
		User: dto.NewUserResponse(user),
	}, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrUnauthenticated
	}
	expiresAt := timeNow()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.tokens.Revoke(ctx, claims.ID, claims.UserID, expiresAt); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	logger.Info().Int64("userID", claims.UserID).Str("jti", claims.ID).Msg("Token revoked")
	return nil
}

func (s *authServiceImpl) ResolveSession(ctx context.Context, token string) (*models.User, *auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Error().Err(err).Str("jti", claims.ID).Msg("Revocation lookup failed")
		return nil, nil, fmt.Errorf("%w: revocation lookup failed", apperrors.ErrUnauthenticated)
	}
	if revoked {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, apperrors.ErrTokenRevoked)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			logger.Error().Err(err).Int64("userID", claims.UserID).Msg("Session user lookup failed")
		}
		return nil, nil, fmt.Errorf("%w: user lookup failed", apperrors.ErrUnauthenticated)
	}
	if !user.IsActive {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, apperrors.ErrAccountDisabled)
	}

	return user, claims, nil
}

func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
