package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/services"
	"github.com/yigit/uniportal/internal/middleware"
)

// GradebookController serves marks to students and the gradebook to faculty
type GradebookController struct {
	gradebookService services.GradebookService
	logger           zerolog.Logger
}

// NewGradebookController creates a new GradebookController
func NewGradebookController(gradebookService services.GradebookService, logger zerolog.Logger) *GradebookController {
	return &GradebookController{
		gradebookService: gradebookService,
		logger:           logger,
	}
}

// GetMyMarks returns the student's marks for a course and term
// @Summary Student marks
// @Description Returns the student's own components, total and grade together with
// @Description min/max/average of each component over the student's section
// @Tags student
// @Security BearerAuth
// @Produce json
// @Param courseId path int true "Course ID"
// @Param termId query int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentMarksResponse}
// @Failure 404 {object} dto.ErrorResponse "Not enrolled"
// @Router /student/courses/{courseId}/marks [get]
func (c *GradebookController) GetMyMarks(ctx *gin.Context) {
	student, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var query dto.TermQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	marks, err := c.gradebookService.StudentMarks(ctx.Request.Context(), student, courseID, query.TermID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, marks)
}

// GetGradebook returns the roster of a course with marks and statistics
// @Summary Course gradebook
// @Tags faculty
// @Security BearerAuth
// @Produce json
// @Param courseId path int true "Course ID"
// @Param termId query int true "Term ID"
// @Param section query string false "Section name, or 'unassigned' (admin only)"
// @Success 200 {object} dto.APIResponse{data=dto.GradebookResponse}
// @Failure 403 {object} dto.ErrorResponse "Not an instructor of this course"
// @Router /faculty/courses/{courseId}/gradebook [get]
func (c *GradebookController) GetGradebook(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var query dto.GradebookQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	gradebook, err := c.gradebookService.Gradebook(ctx.Request.Context(), actor, courseID, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, gradebook)
}

// UpdateMarks replaces the recorded components of an enrollment
// @Summary Record marks
// @Tags faculty
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param enrollmentId path int true "Enrollment ID"
// @Param request body dto.MarksRequest true "Mark components; null means not recorded"
// @Success 200 {object} dto.APIResponse{data=dto.MarkResponse}
// @Router /faculty/enrollments/{enrollmentId}/marks [put]
func (c *GradebookController) UpdateMarks(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}
	enrollmentID, ok := parseIDParam(ctx, "enrollmentId")
	if !ok {
		return
	}

	var req dto.MarksRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	mark, err := c.gradebookService.UpdateMarks(ctx.Request.Context(), actor, enrollmentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, mark)
}

// FinalizeGrades assigns final grades to a course population
// @Summary Finalize grades
// @Tags faculty
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param request body dto.FinalizeRequest true "Term and optional section"
// @Success 200 {object} dto.APIResponse{data=dto.FinalizeResponse}
// @Router /faculty/courses/{courseId}/finalize [post]
func (c *GradebookController) FinalizeGrades(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var req dto.FinalizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.gradebookService.Finalize(ctx.Request.Context(), actor, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("courseId", courseID).
		Int64("termId", req.TermID).
		Int64("actorId", actor.ID).
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Msg("Grades finalized")
	respondOK(ctx, result)
}
