package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/services"
	"github.com/yigit/uniportal/internal/middleware"
)

// TranscriptController serves the student's academic record
type TranscriptController struct {
	transcriptService services.TranscriptService
}

func NewTranscriptController(transcriptService services.TranscriptService) *TranscriptController {
	return &TranscriptController{transcriptService: transcriptService}
}

// GetMyTranscript returns the finalized grades, per-term GPA and CGPA of the student
// @Router /student/transcript [get]
func (c *TranscriptController) GetMyTranscript(ctx *gin.Context) {
	student, ok := currentUser(ctx)
	if !ok {
		return
	}

	transcript, err := c.transcriptService.Get(ctx.Request.Context(), student.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, transcript)
}
