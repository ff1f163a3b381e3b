package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/db"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/dberrors"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// FeeRepository handles the fee ledger
type FeeRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewFeeRepository creates a new FeeRepository
func NewFeeRepository(conn db.DBTX) *FeeRepository {
	return &FeeRepository{db: conn, sb: newBuilder()}
}

// Create appends an entry to a user's ledger
func (r *FeeRepository) Create(ctx context.Context, entry *models.FeeEntry) error {
	entry.CreatedAt = time.Now().UTC()

	sql, args, err := r.sb.Insert("fee_entries").
		Columns("user_id", "term_id", "kind", "amount_cents", "description", "reference", "recorded_by", "created_at").
		Values(entry.UserID, entry.TermID, string(entry.Kind), entry.AmountCents, entry.Description, entry.Reference,
			entry.RecordedBy, entry.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create fee entry query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID); err != nil {
		switch {
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewResourceNotFoundError("user or term not found")
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("invalid fee entry", map[string]interface{}{"amountCents": "must be positive"})
		}
		logger.Error().Err(err).Int64("userID", entry.UserID).Msg("Error creating fee entry")
		return fmt.Errorf("error creating fee entry: %w", err)
	}
	return nil
}

// List returns a user's ledger in the order it was written
func (r *FeeRepository) List(ctx context.Context, filter models.FeeFilter) ([]*models.FeeEntry, error) {
	q := r.sb.Select("id", "user_id", "term_id", "kind", "amount_cents", "description", "reference", "recorded_by", "created_at").
		From("fee_entries").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("created_at", "id")
	if filter.TermID != nil {
		q = q.Where(squirrel.Eq{"term_id": *filter.TermID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build fee ledger query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading fee ledger: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.FeeEntry, 0)
	for rows.Next() {
		var (
			e    models.FeeEntry
			kind string
		)
		err := rows.Scan(&e.ID, &e.UserID, &e.TermID, &kind, &e.AmountCents, &e.Description, &e.Reference,
			&e.RecordedBy, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning fee entry: %w", err)
		}
		e.Kind = models.FeeEntryKind(kind)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
