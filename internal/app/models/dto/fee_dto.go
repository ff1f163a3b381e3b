package dto

import (
	"time"

	"github.com/yigit/uniportal/internal/app/models"
)

// FeeEntryRequest adds a charge or a payment to a student's ledger
type FeeEntryRequest struct {
	TermID      int64               `json:"termId" binding:"required,min=1"`
	Kind        models.FeeEntryKind `json:"kind" binding:"required,oneof=charge payment"`
	AmountCents int64               `json:"amountCents" binding:"required,gt=0"`
	Description string              `json:"description" binding:"required,max=200"`
	Reference   string              `json:"reference" binding:"max=100"`
}

// FeeQuery optionally narrows a ledger to one term
type FeeQuery struct {
	TermID int64 `form:"termId" binding:"omitempty,min=1"`
}

// FeeEntryResponse is one ledger line
type FeeEntryResponse struct {
	ID          int64               `json:"id"`
	TermID      int64               `json:"termId"`
	Kind        models.FeeEntryKind `json:"kind"`
	AmountCents int64               `json:"amountCents"`
	Description string              `json:"description"`
	Reference   string              `json:"reference,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// FeeTermSummary totals the ledger of one term. A negative balance is a credit.
type FeeTermSummary struct {
	TermID       int64  `json:"termId"`
	TermName     string `json:"termName"`
	ChargedCents int64  `json:"chargedCents"`
	PaidCents    int64  `json:"paidCents"`
	BalanceCents int64  `json:"balanceCents"`
}

// FeeLedgerResponse is a student's ledger with per-term and overall totals
type FeeLedgerResponse struct {
	UserID       int64              `json:"userId"`
	Entries      []FeeEntryResponse `json:"entries"`
	Terms        []FeeTermSummary   `json:"terms"`
	ChargedCents int64              `json:"chargedCents"`
	PaidCents    int64              `json:"paidCents"`
	BalanceCents int64              `json:"balanceCents"`
}

// NewFeeEntryResponse converts a ledger entry
func NewFeeEntryResponse(e *models.FeeEntry) FeeEntryResponse {
	return FeeEntryResponse{
		ID:          e.ID,
		TermID:      e.TermID,
		Kind:        e.Kind,
		AmountCents: e.AmountCents,
		Description: e.Description,
		Reference:   e.Reference,
		CreatedAt:   e.CreatedAt,
	}
}
