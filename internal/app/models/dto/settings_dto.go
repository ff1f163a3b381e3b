package dto

import (
	"time"

	"github.com/yigit/uniportal/internal/app/models"
)

// UpdateSettingsRequest changes portal settings. Nil fields are left untouched.
type UpdateSettingsRequest struct {
	MaintenanceMode    *bool   `json:"maintenanceMode"`
	MaintenanceMessage *string `json:"maintenanceMessage" binding:"omitempty,max=500"`
	EnrollmentOpen     *bool   `json:"enrollmentOpen"`
	MaxCreditHours     *int    `json:"maxCreditHours" binding:"omitempty,min=1,max=60"`
}

// SettingsResponse is the admin view of the settings
type SettingsResponse struct {
	MaintenanceMode    bool      `json:"maintenanceMode"`
	MaintenanceMessage string    `json:"maintenanceMessage"`
	EnrollmentOpen     bool      `json:"enrollmentOpen"`
	MaxCreditHours     int       `json:"maxCreditHours"`
	UpdatedBy          *int64    `json:"updatedBy"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// PublicSettingsResponse is what unauthenticated clients may see
type PublicSettingsResponse struct {
	MaintenanceMode    bool   `json:"maintenanceMode"`
	MaintenanceMessage string `json:"maintenanceMessage,omitempty"`
	EnrollmentOpen     bool   `json:"enrollmentOpen"`
}

// NewSettingsResponse converts settings
func NewSettingsResponse(s *models.Settings) SettingsResponse {
	return SettingsResponse{
		MaintenanceMode:    s.MaintenanceMode,
		MaintenanceMessage: s.MaintenanceMessage,
		EnrollmentOpen:     s.EnrollmentOpen,
		MaxCreditHours:     s.MaxCreditHours,
		UpdatedBy:          s.UpdatedBy,
		UpdatedAt:          s.UpdatedAt,
	}
}

// NewPublicSettingsResponse converts settings to the public view
func NewPublicSettingsResponse(s *models.Settings) PublicSettingsResponse {
	resp := PublicSettingsResponse{
		MaintenanceMode: s.MaintenanceMode,
		EnrollmentOpen:  s.EnrollmentOpen,
	}
	if s.MaintenanceMode {
		resp.MaintenanceMessage = s.MaintenanceMessage
	}
	return resp
}
