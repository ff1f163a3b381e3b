package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/services"
	"github.com/yigit/uniportal/internal/middleware"
)

// AttendanceController records class sessions and serves attendance summaries
type AttendanceController struct {
	attendanceService services.AttendanceService
}

func NewAttendanceController(attendanceService services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// RecordAttendance stores the statuses of one session
// @Summary Record a session
// @Tags faculty
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param request body dto.AttendanceRequest true "Session date and one status per enrollment"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceRecordedResponse}
// @Failure 403 {object} dto.ErrorResponse "Enrollment outside the instructor's sections"
// @Failure 409 {object} dto.ErrorResponse "Enrollment is not active"
// @Router /faculty/courses/{courseId}/attendance [put]
func (c *AttendanceController) RecordAttendance(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var req dto.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.attendanceService.Record(ctx.Request.Context(), actor, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, result)
}

// GetCourseAttendance summarizes the attendance of a course population
// @Router /faculty/courses/{courseId}/attendance [get]
func (c *AttendanceController) GetCourseAttendance(ctx *gin.Context) {
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

	report, err := c.attendanceService.CourseReport(ctx.Request.Context(), actor, courseID, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, report)
}

// GetMyAttendance returns the student's sessions per course of a term
// @Router /student/attendance [get]
func (c *AttendanceController) GetMyAttendance(ctx *gin.Context) {
	student, ok := currentUser(ctx)
	if !ok {
		return
	}

	var query dto.TermQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.attendanceService.StudentAttendance(ctx.Request.Context(), student, query.TermID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, result)
}
