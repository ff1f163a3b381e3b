package models

import "time"

// AttendanceStatus is how a student turned up to one class session
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

// IsValid reports whether s is one of the known statuses
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

// AttendanceRecord is the status of one enrollment on one session date.
// There is at most one record per enrollment and date.
type AttendanceRecord struct {
	ID           int64            `json:"id" db:"id"`
	EnrollmentID int64            `json:"enrollmentId" db:"enrollment_id"`
	SessionDate  time.Time        `json:"sessionDate" db:"session_date"`
	Status       AttendanceStatus `json:"status" db:"status"`
	MarkedBy     *int64           `json:"markedBy,omitempty" db:"marked_by"`
	UpdatedAt    time.Time        `json:"updatedAt" db:"updated_at"`
}
