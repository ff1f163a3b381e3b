package models

import "time"

// StudentMark holds the raw component scores of one enrollment
type StudentMark struct {
	ID           int64     `json:"id" db:"id"`
	EnrollmentID int64     `json:"enrollmentId" db:"enrollment_id"`
	Assignment1  *float64  `json:"assignment1" db:"assignment1"`
	Assignment2  *float64  `json:"assignment2" db:"assignment2"`
	Quiz1        *float64  `json:"quiz1" db:"quiz1"`
	Quiz2        *float64  `json:"quiz2" db:"quiz2"`
	Quiz3        *float64  `json:"quiz3" db:"quiz3"`
	Quiz4        *float64  `json:"quiz4" db:"quiz4"`
	Mid1         *float64  `json:"mid1" db:"mid1"`
	Mid2         *float64  `json:"mid2" db:"mid2"`
	FinalExam    *float64  `json:"finalExam" db:"final_exam"`
	GraceMarks   *float64  `json:"graceMarks" db:"grace_marks"`
	Total        *float64  `json:"total" db:"total"`
	UpdatedBy    *int64    `json:"updatedBy,omitempty" db:"updated_by"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Components returns the component scores in a fixed order
func (m *StudentMark) Components() []*float64 {
	return []*float64{
		m.Assignment1, m.Assignment2,
		m.Quiz1, m.Quiz2, m.Quiz3, m.Quiz4,
		m.Mid1, m.Mid2, m.FinalExam, m.GraceMarks,
	}
}

// RecomputeTotal sets Total to the sum of recorded components, or nil when none is recorded
func (m *StudentMark) RecomputeTotal() {
	var sum float64
	recorded := false
	for _, c := range m.Components() {
		if c == nil {
			continue
		}
		sum += *c
		recorded = true
	}
	if !recorded {
		m.Total = nil
		return
	}
	m.Total = &sum
}
