package dto

import "github.com/yigit/uniportal/internal/app/models"

// CourseFilterRequest are the course list query parameters
type CourseFilterRequest struct {
	Department string `form:"department"`
	Active     *bool  `form:"active"`
	Search     string `form:"q"`
	PageQuery
}

// CreateCourseRequest creates a course
type CreateCourseRequest struct {
	Code        string `json:"code" binding:"required,max=20"`
	Title       string `json:"title" binding:"required,max=200"`
	CreditHours int    `json:"creditHours" binding:"min=0,max=12"`
	Capacity    int    `json:"capacity" binding:"min=0"`
	Department  string `json:"department" binding:"max=100"`
}

// UpdateCourseRequest updates a course. Nil fields are left untouched.
type UpdateCourseRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	CreditHours *int    `json:"creditHours" binding:"omitempty,min=0,max=12"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=0"`
	Department  *string `json:"department" binding:"omitempty,max=100"`
	IsActive    *bool   `json:"isActive"`
}

// CreateSectionRequest adds a section to a course
type CreateSectionRequest struct {
	Name         string `json:"name" binding:"required,max=50"`
	InstructorID *int64 `json:"instructorId" binding:"omitempty,min=1"`
}

// AssignInstructorRequest sets or clears (null) a section instructor
type AssignInstructorRequest struct {
	InstructorID *int64 `json:"instructorId" binding:"omitempty,min=1"`
}

// SectionResponse is the public view of a section
type SectionResponse struct {
	ID           int64  `json:"id"`
	CourseID     int64  `json:"courseId"`
	Name         string `json:"name"`
	InstructorID *int64 `json:"instructorId"`
}

// CourseResponse is the public view of a course
type CourseResponse struct {
	ID          int64             `json:"id"`
	Code        string            `json:"code"`
	Title       string            `json:"title"`
	CreditHours int               `json:"creditHours"`
	Capacity    int               `json:"capacity"`
	Department  string            `json:"department,omitempty"`
	IsActive    bool              `json:"isActive"`
	Sections    []SectionResponse `json:"sections,omitempty"`
}

// CourseListResponse is a page of courses
type CourseListResponse struct {
	Courses    []CourseResponse `json:"courses"`
	Pagination PaginationInfo   `json:"pagination"`
}

// NewSectionResponse converts a section model
func NewSectionResponse(s *models.Section) SectionResponse {
	return SectionResponse{
		ID:           s.ID,
		CourseID:     s.CourseID,
		Name:         s.Name,
		InstructorID: s.InstructorID,
	}
}

// NewCourseResponse converts a course model, including any loaded sections
func NewCourseResponse(c *models.Course) CourseResponse {
	resp := CourseResponse{
		ID:          c.ID,
		Code:        c.Code,
		Title:       c.Title,
		CreditHours: c.CreditHours,
		Capacity:    c.Capacity,
		Department:  c.Department,
		IsActive:    c.IsActive,
	}
	for _, s := range c.Sections {
		resp.Sections = append(resp.Sections, NewSectionResponse(s))
	}
	return resp
}
