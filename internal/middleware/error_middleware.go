package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

type errorMapping struct {
	targets []error
	status  int
	code    dto.ErrorCode
	// message overrides the text of the matched error when set
	message string
}

var errorMappings = []errorMapping{
	{
		targets: []error{apperrors.ErrInvalidCredentials},
		status:  http.StatusUnauthorized,
		code:    dto.ErrorCodeInvalidCredentials,
		message: "Invalid credentials",
	},
	{
		targets: []error{
			apperrors.ErrUnauthenticated, apperrors.ErrAccountDisabled, apperrors.ErrTokenExpired,
			apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked, apperrors.ErrInvalidFormat,
		},
		status:  http.StatusUnauthorized,
		code:    dto.ErrorCodeUnauthorized,
		message: "Not authenticated",
	},
	{
		targets: []error{apperrors.ErrPermissionDenied, apperrors.ErrNotCourseInstructor},
		status:  http.StatusForbidden,
		code:    dto.ErrorCodeForbidden,
		message: "Forbidden",
	},
	{
		targets: []error{
			apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound, apperrors.ErrCourseNotFound,
			apperrors.ErrSectionNotFound, apperrors.ErrTermNotFound, apperrors.ErrEnrollmentNotFound,
			apperrors.ErrMarkNotFound, apperrors.ErrNotificationNotFound,
		},
		status: http.StatusNotFound,
		code:   dto.ErrorCodeResourceNotFound,
	},
	{
		targets: []error{apperrors.ErrValidationFailed, apperrors.ErrBadRequest},
		status:  http.StatusBadRequest,
		code:    dto.ErrorCodeValidationFailed,
	},
	{
		targets: []error{
			apperrors.ErrConflict, apperrors.ErrResourceAlreadyExists, apperrors.ErrEmailAlreadyExists,
			apperrors.ErrCourseAlreadyExists, apperrors.ErrDuplicateSection, apperrors.ErrDuplicateEnrollment,
			apperrors.ErrCourseFull, apperrors.ErrCreditLimitExceeded, apperrors.ErrEnrollmentClosed,
			apperrors.ErrCourseInactive, apperrors.ErrEnrollmentNotActive, apperrors.ErrNoActiveTerm,
		},
		status: http.StatusConflict,
		code:   dto.ErrorCodeConflict,
	},
	{
		targets: []error{apperrors.ErrMaintenance},
		status:  http.StatusServiceUnavailable,
		code:    dto.ErrorCodeMaintenance,
	},
}

// HandleAPIError writes the error response matching err. Unknown errors are
// logged and reported as a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		for _, target := range m.targets {
			if !errors.Is(err, target) {
				continue
			}
			c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(describe(err, target, m)))
			return
		}
	}

	logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical),
	))
}

func describe(err, target error, m errorMapping) *dto.ErrorDetail {
	var custom *apperrors.CustomError
	isCustom := errors.As(err, &custom)

	message := m.message
	switch {
	case message != "":
	case isCustom && custom.Message != "":
		message = custom.Message
	default:
		message = target.Error()
	}

	detail := dto.NewErrorDetail(m.code, message)
	switch {
	case isCustom && len(custom.Details) > 0:
		detail.WithDetails(custom.Details)
	case m.message == "" && err.Error() != message:
		detail.WithDetails(err.Error())
	}
	if m.status < http.StatusInternalServerError {
		detail.WithSeverity(dto.ErrorSeverityWarning)
	}
	return detail
}

// HandleBindingError reports a request binding or validation failure as 400
func HandleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
