package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/services"
	"github.com/yigit/uniportal/internal/middleware"
)

// TermController handles academic term endpoints
type TermController struct {
	termService services.TermService
}

// NewTermController creates a new TermController
func NewTermController(termService services.TermService) *TermController {
	return &TermController{termService: termService}
}

// ListTerms returns every term, newest first
// @Summary List terms
// @Tags terms
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.TermResponse}
// @Router /terms [get]
func (c *TermController) ListTerms(ctx *gin.Context) {
	terms, err := c.termService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, terms)
}

// GetActiveTerm returns the single active term
// @Summary Active term
// @Tags terms
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.TermResponse}
// @Failure 404 {object} dto.ErrorResponse "No active term"
// @Router /terms/active [get]
func (c *TermController) GetActiveTerm(ctx *gin.Context) {
	term, err := c.termService.GetActive(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, term)
}

// CreateTerm creates a new term
// @Summary Create term
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.TermRequest true "Term"
// @Success 201 {object} dto.APIResponse{data=dto.TermResponse}
// @Router /admin/terms [post]
func (c *TermController) CreateTerm(ctx *gin.Context) {
	var req dto.TermRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	term, err := c.termService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, term)
}

// UpdateTerm renames or re-dates a term
// @Router /admin/terms/{id} [put]
func (c *TermController) UpdateTerm(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.TermRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	term, err := c.termService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, term)
}

// ActivateTerm makes a term the only active one
// @Router /admin/terms/{id}/activate [post]
func (c *TermController) ActivateTerm(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	term, err := c.termService.Activate(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, term)
}
