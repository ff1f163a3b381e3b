package models

import "time"

// FeeEntryKind separates what a student owes from what they paid
type FeeEntryKind string

const (
	FeeCharge  FeeEntryKind = "charge"
	FeePayment FeeEntryKind = "payment"
)

// FeeEntry is one line of a student's fee ledger. Amounts are in minor units.
type FeeEntry struct {
	ID          int64        `json:"id" db:"id"`
	UserID      int64        `json:"userId" db:"user_id"`
	TermID      int64        `json:"termId" db:"term_id"`
	Kind        FeeEntryKind `json:"kind" db:"kind"`
	AmountCents int64        `json:"amountCents" db:"amount_cents"`
	Description string       `json:"description" db:"description"`
	Reference   string       `json:"reference" db:"reference"`
	RecordedBy  *int64       `json:"recordedBy,omitempty" db:"recorded_by"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
}

// FeeFilter narrows ledger queries to one user and optionally one term
type FeeFilter struct {
	UserID int64
	TermID *int64
}
