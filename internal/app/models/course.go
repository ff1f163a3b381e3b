package models

import "time"

// Course represents a catalogue course
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Title       string    `json:"title" db:"title"`
	CreditHours int       `json:"creditHours" db:"credit_hours"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Department  string    `json:"department" db:"department"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Sections []*Section `json:"sections,omitempty"`
}

// Section is a named subgroup of a course taught by one instructor
type Section struct {
	ID           int64  `json:"id" db:"id"`
	CourseID     int64  `json:"courseId" db:"course_id"`
	Name         string `json:"name" db:"name"`
	InstructorID *int64 `json:"instructorId,omitempty" db:"instructor_id"`
}

// CourseFilter narrows course listings
type CourseFilter struct {
	Department string
	IsActive   *bool
	Search     string
	Offset     uint64
	Limit      int
}
