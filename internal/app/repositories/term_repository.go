package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/db"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

var termColumns = []string{"id", "name", "start_date", "end_date", "is_active", "created_at"}

// TermRepository handles academic term persistence
type TermRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewTermRepository creates a new TermRepository
func NewTermRepository(conn db.DBTX) *TermRepository {
	return &TermRepository{db: conn, sb: newBuilder()}
}

func scanTerm(row pgx.Row) (*models.Term, error) {
	var t models.Term
	if err := row.Scan(&t.ID, &t.Name, &t.StartDate, &t.EndDate, &t.IsActive, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new (inactive) term
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	term.CreatedAt = time.Now().UTC()
	sql, args, err := r.sb.Insert("terms").
		Columns("name", "start_date", "end_date", "is_active", "created_at").
		Values(term.Name, term.StartDate, term.EndDate, term.IsActive, term.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create term query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&term.ID); err != nil {
		logger.Error().Err(err).Str("name", term.Name).Msg("Error creating term")
		return fmt.Errorf("error creating term: %w", err)
	}
	return nil
}

func (r *TermRepository) getOne(ctx context.Context, where squirrel.Sqlizer, notFound error) (*models.Term, error) {
	sql, args, err := r.sb.Select(termColumns...).From("terms").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get term query: %w", err)
	}

	term, err := scanTerm(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		return nil, fmt.Errorf("error retrieving term: %w", err)
	}
	return term, nil
}

// GetByID retrieves a term by ID
func (r *TermRepository) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, apperrors.ErrTermNotFound)
}

// GetActive retrieves the active term
func (r *TermRepository) GetActive(ctx context.Context) (*models.Term, error) {
	return r.getOne(ctx, squirrel.Eq{"is_active": true}, apperrors.ErrNoActiveTerm)
}

// List returns every term, most recent first
func (r *TermRepository) List(ctx context.Context) ([]*models.Term, error) {
	sql, args, err := r.sb.Select(termColumns...).From("terms").OrderBy("start_date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list terms query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing terms: %w", err)
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning term row: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// Update writes name and dates
func (r *TermRepository) Update(ctx context.Context, term *models.Term) error {
	sql, args, err := r.sb.Update("terms").
		Set("name", term.Name).
		Set("start_date", term.StartDate).
		Set("end_date", term.EndDate).
		Where(squirrel.Eq{"id": term.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update term query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating term: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTermNotFound
	}
	return nil
}

// Activate flips the active flag so that only id is active
func (r *TermRepository) Activate(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("terms").
		Set("is_active", false).
		Where(squirrel.And{squirrel.Eq{"is_active": true}, squirrel.NotEq{"id": id}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deactivate terms query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deactivating terms: %w", err)
	}

	sql, args, err = r.sb.Update("terms").
		Set("is_active", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build activate term query: %w", err)
	}
	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error activating term: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTermNotFound
	}
	return nil
}
