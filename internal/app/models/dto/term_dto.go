package dto

import (
	"time"

	"github.com/yigit/uniportal/internal/app/models"
)

// TermRequest creates or updates a term
type TermRequest struct {
	Name      string    `json:"name" binding:"required,max=100"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required,gtfield=StartDate"`
}

// TermResponse is the public view of a term
type TermResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`
}

// NewTermResponse converts a term model
func NewTermResponse(t *models.Term) TermResponse {
	return TermResponse{
		ID:        t.ID,
		Name:      t.Name,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		IsActive:  t.IsActive,
	}
}
