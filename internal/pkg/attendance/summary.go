// Package attendance aggregates per-session attendance records into the
// counts and percentage shown to students and instructors.
package attendance

import (
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/grading"
)

// MinimumPercentage is the attendance below which a student is flagged short
const MinimumPercentage = 75.0

// Summary counts the sessions of one enrollment by status
type Summary struct {
	Sessions int `json:"sessions"`
	Present  int `json:"present"`
	Late     int `json:"late"`
	Absent   int `json:"absent"`
	Excused  int `json:"excused"`
	// Percentage is attended (present or late) over sessions that were not
	// excused, rounded to two places. It is nil when no such session exists.
	Percentage *float64 `json:"percentage"`
	Short      bool     `json:"short"`
}

// Summarize counts records by status
func Summarize(records []models.AttendanceRecord) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case models.AttendancePresent:
			s.Present++
		case models.AttendanceLate:
			s.Late++
		case models.AttendanceAbsent:
			s.Absent++
		case models.AttendanceExcused:
			s.Excused++
		default:
			continue
		}
		s.Sessions++
	}

	counted := s.Sessions - s.Excused
	if counted == 0 {
		return s
	}
	pct := grading.Round2(float64(s.Present+s.Late) / float64(counted) * 100)
	s.Percentage = &pct
	s.Short = pct < MinimumPercentage
	return s
}

// ByEnrollment groups records by enrollment id
func ByEnrollment(records []models.AttendanceRecord) map[int64][]models.AttendanceRecord {
	grouped := make(map[int64][]models.AttendanceRecord)
	for _, r := range records {
		grouped[r.EnrollmentID] = append(grouped[r.EnrollmentID], r)
	}
	return grouped
}
