package models

import "time"

// Settings holds the operational switches administrators can change at runtime
type Settings struct {
	MaintenanceMode    bool      `json:"maintenanceMode" db:"maintenance_mode"`
	MaintenanceMessage string    `json:"maintenanceMessage" db:"maintenance_message"`
	EnrollmentOpen     bool      `json:"enrollmentOpen" db:"enrollment_open"`
	MaxCreditHours     int       `json:"maxCreditHours" db:"max_credit_hours"`
	UpdatedBy          *int64    `json:"updatedBy,omitempty" db:"updated_by"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}
