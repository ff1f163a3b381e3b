package models

import "time"

// Transcript is the finalized grade of a student for a course in a term
type Transcript struct {
	ID          int64            `json:"id" db:"id"`
	UserID      int64            `json:"userId" db:"user_id"`
	CourseID    int64            `json:"courseId" db:"course_id"`
	TermID      int64            `json:"termId" db:"term_id"`
	Grade       string           `json:"grade" db:"grade"`
	GradePoints float64          `json:"gradePoints" db:"grade_points"`
	Status      TranscriptStatus `json:"status" db:"status"`
	FinalizedAt time.Time        `json:"finalizedAt" db:"finalized_at"`
}

// TranscriptLine is a transcript row joined with its course
type TranscriptLine struct {
	Transcript
	CourseCode  string `json:"courseCode" db:"course_code"`
	CourseTitle string `json:"courseTitle" db:"course_title"`
	CreditHours int    `json:"creditHours" db:"credit_hours"`
	TermName    string `json:"termName" db:"term_name"`
}
