package dto

import (
	"time"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/grading"
)

// TermQuery selects the term of a course view
type TermQuery struct {
	TermID int64 `form:"termId" binding:"required,min=1"`
}

// GradebookQuery selects the term and optional section of a gradebook
type GradebookQuery struct {
	TermID  int64  `form:"termId" binding:"required,min=1"`
	Section string `form:"section" binding:"max=50"`
}

// MarksRequest replaces the recorded components of one enrollment.
// A null component is stored as not recorded.
type MarksRequest struct {
	Assignment1 *float64 `json:"assignment1" binding:"omitempty,gte=0"`
	Assignment2 *float64 `json:"assignment2" binding:"omitempty,gte=0"`
	Quiz1       *float64 `json:"quiz1" binding:"omitempty,gte=0"`
	Quiz2       *float64 `json:"quiz2" binding:"omitempty,gte=0"`
	Quiz3       *float64 `json:"quiz3" binding:"omitempty,gte=0"`
	Quiz4       *float64 `json:"quiz4" binding:"omitempty,gte=0"`
	Mid1        *float64 `json:"mid1" binding:"omitempty,gte=0"`
	Mid2        *float64 `json:"mid2" binding:"omitempty,gte=0"`
	FinalExam   *float64 `json:"finalExam" binding:"omitempty,gte=0"`
	GraceMarks  *float64 `json:"graceMarks" binding:"omitempty,gte=0"`
}

// ToModel copies the components into a mark
func (r *MarksRequest) ToModel(enrollmentID int64) *models.StudentMark {
	return &models.StudentMark{
		EnrollmentID: enrollmentID,
		Assignment1:  r.Assignment1,
		Assignment2:  r.Assignment2,
		Quiz1:        r.Quiz1,
		Quiz2:        r.Quiz2,
		Quiz3:        r.Quiz3,
		Quiz4:        r.Quiz4,
		Mid1:         r.Mid1,
		Mid2:         r.Mid2,
		FinalExam:    r.FinalExam,
		GraceMarks:   r.GraceMarks,
	}
}

// MarkResponse is the component view of a mark
type MarkResponse struct {
	EnrollmentID int64      `json:"enrollmentId"`
	Assignment1  *float64   `json:"assignment1"`
	Assignment2  *float64   `json:"assignment2"`
	Quiz1        *float64   `json:"quiz1"`
	Quiz2        *float64   `json:"quiz2"`
	Quiz3        *float64   `json:"quiz3"`
	Quiz4        *float64   `json:"quiz4"`
	Mid1         *float64   `json:"mid1"`
	Mid2         *float64   `json:"mid2"`
	FinalExam    *float64   `json:"finalExam"`
	GraceMarks   *float64   `json:"graceMarks"`
	Total        *float64   `json:"total"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// NewMarkResponse converts a mark; nil yields an empty (all unrecorded) view
func NewMarkResponse(enrollmentID int64, m *models.StudentMark) MarkResponse {
	resp := MarkResponse{EnrollmentID: enrollmentID}
	if m == nil {
		return resp
	}
	resp.Assignment1 = m.Assignment1
	resp.Assignment2 = m.Assignment2
	resp.Quiz1 = m.Quiz1
	resp.Quiz2 = m.Quiz2
	resp.Quiz3 = m.Quiz3
	resp.Quiz4 = m.Quiz4
	resp.Mid1 = m.Mid1
	resp.Mid2 = m.Mid2
	resp.FinalExam = m.FinalExam
	resp.GraceMarks = m.GraceMarks
	resp.Total = m.Total
	if !m.UpdatedAt.IsZero() {
		updated := m.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// StudentMarksResponse is a student's own marks with the section statistics
type StudentMarksResponse struct {
	CourseID int64                         `json:"courseId"`
	TermID   int64                         `json:"termId"`
	Section  string                        `json:"section"`
	Status   models.EnrollmentStatus       `json:"status"`
	Marks    MarkResponse                  `json:"marks"`
	Stats    map[string]grading.FieldStats `json:"stats"`
}

// GradebookRow is one student line of a gradebook
type GradebookRow struct {
	EnrollmentID int64                   `json:"enrollmentId"`
	UserID       int64                   `json:"userId"`
	Name         string                  `json:"name"`
	Email        string                  `json:"email"`
	Section      string                  `json:"section"`
	Status       models.EnrollmentStatus `json:"status"`
	Marks        MarkResponse            `json:"marks"`
}

// GradebookResponse is the faculty gradebook of one population
type GradebookResponse struct {
	CourseID int64                         `json:"courseId"`
	TermID   int64                         `json:"termId"`
	Section  string                        `json:"section,omitempty"`
	Students []GradebookRow                `json:"students"`
	Stats    map[string]grading.FieldStats `json:"stats"`
}

// FinalizeRequest finalizes the grades of a course population
type FinalizeRequest struct {
	TermID  int64  `json:"termId" binding:"required,min=1"`
	Section string `json:"section" binding:"max=50"`
}

// FinalizeResult is the grade assigned to one enrollment
type FinalizeResult struct {
	EnrollmentID int64   `json:"enrollmentId"`
	UserID       int64   `json:"userId"`
	Total        float64 `json:"total"`
	Grade        string  `json:"grade"`
	GradePoints  float64 `json:"gradePoints"`
}

// FinalizeResponse summarises a finalize run
type FinalizeResponse struct {
	Processed int              `json:"processed"`
	Skipped   int              `json:"skipped"`
	Total     int              `json:"total"`
	Results   []FinalizeResult `json:"results"`
}
