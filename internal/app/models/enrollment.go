package models

import "time"

// Enrollment links a student to a course within a term
type Enrollment struct {
	ID         int64            `json:"id" db:"id"`
	UserID     int64            `json:"userId" db:"user_id"`
	CourseID   int64            `json:"courseId" db:"course_id"`
	TermID     int64            `json:"termId" db:"term_id"`
	Status     EnrollmentStatus `json:"status" db:"status"`
	EnrolledAt time.Time        `json:"enrolledAt" db:"enrolled_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`
}

// EnrollmentFilter narrows enrollment queries
type EnrollmentFilter struct {
	UserID   *int64
	CourseID *int64
	TermID   *int64
	Statuses []EnrollmentStatus
}

// RosterEntry is an enrollment joined with its student and marks
type RosterEntry struct {
	Enrollment Enrollment
	Student    User
	Mark       *StudentMark
}
