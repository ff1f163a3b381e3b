package dto

import (
	"time"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/attendance"
)

// SessionDateLayout is the wire format of attendance session dates
const SessionDateLayout = "2006-01-02"

// AttendanceEntry is the status of one enrollment in a session
type AttendanceEntry struct {
	EnrollmentID int64                   `json:"enrollmentId" binding:"required,min=1"`
	Status       models.AttendanceStatus `json:"status" binding:"required,oneof=present late absent excused"`
}

// AttendanceRequest records one class session of a course population
type AttendanceRequest struct {
	TermID  int64             `json:"termId" binding:"required,min=1"`
	Section string            `json:"section" binding:"max=50"`
	Date    string            `json:"date" binding:"required,datetime=2006-01-02"`
	Records []AttendanceEntry `json:"records" binding:"required,min=1,max=500,dive"`
}

// AttendanceRecordedResponse acknowledges a recorded session
type AttendanceRecordedResponse struct {
	CourseID int64  `json:"courseId"`
	TermID   int64  `json:"termId"`
	Date     string `json:"date"`
	Recorded int    `json:"recorded"`
}

// AttendanceReportRow is the attendance of one student of a course
type AttendanceReportRow struct {
	EnrollmentID int64              `json:"enrollmentId"`
	UserID       int64              `json:"userId"`
	Name         string             `json:"name"`
	Section      string             `json:"section"`
	Summary      attendance.Summary `json:"summary"`
}

// AttendanceReport is the attendance of a course population in a term
type AttendanceReport struct {
	CourseID int64                 `json:"courseId"`
	TermID   int64                 `json:"termId"`
	Section  string                `json:"section"`
	Students []AttendanceReportRow `json:"students"`
}

// AttendanceSession is one recorded session as the student sees it
type AttendanceSession struct {
	Date   string                  `json:"date"`
	Status models.AttendanceStatus `json:"status"`
}

// CourseAttendance is the student's attendance in one course
type CourseAttendance struct {
	EnrollmentID int64               `json:"enrollmentId"`
	CourseID     int64               `json:"courseId"`
	CourseCode   string              `json:"courseCode"`
	CourseTitle  string              `json:"courseTitle"`
	Summary      attendance.Summary  `json:"summary"`
	Sessions     []AttendanceSession `json:"sessions"`
}

// StudentAttendanceResponse is the student's attendance across a term
type StudentAttendanceResponse struct {
	TermID  int64              `json:"termId"`
	Courses []CourseAttendance `json:"courses"`
}

// NewAttendanceSessions formats records for the student view
func NewAttendanceSessions(records []models.AttendanceRecord) []AttendanceSession {
	sessions := make([]AttendanceSession, 0, len(records))
	for _, r := range records {
		sessions = append(sessions, AttendanceSession{Date: FormatSessionDate(r.SessionDate), Status: r.Status})
	}
	return sessions
}

// FormatSessionDate renders a session date in SessionDateLayout
func FormatSessionDate(t time.Time) string {
	return t.UTC().Format(SessionDateLayout)
}
