package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/services"
	"github.com/yigit/uniportal/internal/middleware"
)

// EnrollmentController handles student course registration
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// Enroll registers the current student into a course of the active term
// @Summary Enroll in a course
// @Tags student
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.EnrollRequest true "Course to enroll in"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse}
// @Failure 409 {object} dto.ErrorResponse "Closed window, duplicate, full course or credit limit"
// @Router /student/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	student, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), student, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, enrollment)
}

// Drop withdraws the current student from an enrollment
// @Router /student/enrollments/{id} [delete]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	student, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Drop(ctx.Request.Context(), student, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, enrollment)
}

// ListMyEnrollments returns the student's enrollments, optionally for one term
// @Router /student/enrollments [get]
func (c *EnrollmentController) ListMyEnrollments(ctx *gin.Context) {
	student, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.EnrollmentListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	enrollments, err := c.enrollmentService.ListMine(ctx.Request.Context(), student, req.TermID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, enrollments)
}
