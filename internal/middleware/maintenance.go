package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
)

// SettingsSource exposes the current portal settings
type SettingsSource interface {
	Current() models.Settings
}

// Maintenance rejects non-admin traffic with 503 while maintenance mode is on.
// It must run after JWTAuth.
func Maintenance(settings SettingsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := settings.Current()
		if !current.MaintenanceMode {
			c.Next()
			return
		}
		if user, ok := CurrentUser(c); ok && user.Role == models.RoleAdmin {
			c.Next()
			return
		}

		message := current.MaintenanceMessage
		if message == "" {
			message = "The portal is under maintenance"
		}
		c.Header("Retry-After", "300")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeMaintenance, message).WithSeverity(dto.ErrorSeverityInfo),
		))
	}
}
