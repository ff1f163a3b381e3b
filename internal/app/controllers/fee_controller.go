package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/services"
	"github.com/yigit/uniportal/internal/middleware"
)

// FeeController exposes the fee ledger to admins and to the student it belongs to
type FeeController struct {
	feeService services.FeeService
}

func NewFeeController(feeService services.FeeService) *FeeController {
	return &FeeController{feeService: feeService}
}

func bindFeeQuery(ctx *gin.Context) (*int64, bool) {
	var query dto.FeeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return nil, false
	}
	if query.TermID == 0 {
		return nil, true
	}
	return &query.TermID, true
}

// RecordFee adds a charge or a payment to a student's ledger
// @Summary Record fee entry
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Student user ID"
// @Param request body dto.FeeEntryRequest true "Charge or payment"
// @Success 201 {object} dto.APIResponse{data=dto.FeeEntryResponse}
// @Failure 400 {object} dto.ErrorResponse "User is not a student"
// @Router /admin/users/{id}/fees [post]
func (c *FeeController) RecordFee(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.FeeEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	entry, err := c.feeService.Record(ctx.Request.Context(), actor, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, entry)
}

// GetUserLedger returns any student's ledger
// @Router /admin/users/{id}/fees [get]
func (c *FeeController) GetUserLedger(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	termID, ok := bindFeeQuery(ctx)
	if !ok {
		return
	}

	ledger, err := c.feeService.Ledger(ctx.Request.Context(), userID, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, ledger)
}

// GetMyLedger returns the authenticated student's ledger
// @Router /student/fees [get]
func (c *FeeController) GetMyLedger(ctx *gin.Context) {
	student, ok := currentUser(ctx)
	if !ok {
		return
	}
	termID, ok := bindFeeQuery(ctx)
	if !ok {
		return
	}

	ledger, err := c.feeService.Ledger(ctx.Request.Context(), student.ID, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, ledger)
}
