package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/pkg/auth"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// Context keys set by JWTAuth
const (
	ContextUserKey   = "currentUser"
	ContextClaimsKey = "tokenClaims"
	ContextUserIDKey = "userID"
	ContextRoleKey   = "roleType"
)

// SessionResolver turns a bearer token into an active user
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.User, *auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	sessions SessionResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

func abortUnauthenticated(c *gin.Context, reason string) {
	detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Not authenticated").WithDetails(reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

func abortForbidden(c *gin.Context) {
	detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Forbidden")
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
}

// JWTAuth resolves the bearer token to an active user. Any failure, including a
// storage error while resolving, ends the request with 401.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthenticated(c, "Authorization header missing or malformed")
			return
		}

		user, claims, err := m.sessions.ResolveSession(c.Request.Context(), token)
		if err != nil || user == nil {
			logger.Debug().Err(err).Str("path", c.FullPath()).Msg("Session rejected")
			abortUnauthenticated(c, "Invalid or expired session")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextRoleKey, user.Role)
		c.Next()
	}
}

// RoleRequired lets the request through only when the current user has one of roles
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthenticated(c, "User information not found")
			return
		}

		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}

		logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Str("path", c.FullPath()).Msg("Role check failed")
		abortForbidden(c)
	}
}

// CurrentUser returns the user resolved by JWTAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// CurrentClaims returns the token claims resolved by JWTAuth
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}
