package dto

import (
	"time"

	"github.com/yigit/uniportal/internal/app/models"
)

// EnrollRequest enrolls the current student into a course of the active term
type EnrollRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
}

// EnrollmentListRequest filters the student's enrollments
type EnrollmentListRequest struct {
	TermID *int64 `form:"termId" binding:"omitempty,min=1"`
}

// EnrollmentResponse is an enrollment with its course summary
type EnrollmentResponse struct {
	ID          int64                   `json:"id"`
	CourseID    int64                   `json:"courseId"`
	CourseCode  string                  `json:"courseCode,omitempty"`
	CourseTitle string                  `json:"courseTitle,omitempty"`
	CreditHours int                     `json:"creditHours"`
	TermID      int64                   `json:"termId"`
	Status      models.EnrollmentStatus `json:"status"`
	EnrolledAt  time.Time               `json:"enrolledAt"`
}

// NewEnrollmentResponse converts an enrollment; course may be nil
func NewEnrollmentResponse(e *models.Enrollment, course *models.Course) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:         e.ID,
		CourseID:   e.CourseID,
		TermID:     e.TermID,
		Status:     e.Status,
		EnrolledAt: e.EnrolledAt,
	}
	if course != nil {
		resp.CourseCode = course.Code
		resp.CourseTitle = course.Title
		resp.CreditHours = course.CreditHours
	}
	return resp
}
