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
	"github.com/yigit/uniportal/internal/pkg/dberrors"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// MarkRepository handles the per-enrollment component scores
type MarkRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewMarkRepository creates a new MarkRepository
func NewMarkRepository(conn db.DBTX) *MarkRepository {
	return &MarkRepository{db: conn, sb: newBuilder()}
}

// GetByEnrollment retrieves the marks of one enrollment
func (r *MarkRepository) GetByEnrollment(ctx context.Context, enrollmentID int64) (*models.StudentMark, error) {
	sql, args, err := r.sb.Select(
		"id", "enrollment_id", "assignment1", "assignment2", "quiz1", "quiz2", "quiz3", "quiz4",
		"mid1", "mid2", "final_exam", "grace_marks", "total", "updated_by", "updated_at",
	).
		From("student_marks").
		Where(squirrel.Eq{"enrollment_id": enrollmentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get marks query: %w", err)
	}

	var m models.StudentMark
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&m.ID, &m.EnrollmentID, &m.Assignment1, &m.Assignment2, &m.Quiz1, &m.Quiz2, &m.Quiz3, &m.Quiz4,
		&m.Mid1, &m.Mid2, &m.FinalExam, &m.GraceMarks, &m.Total, &m.UpdatedBy, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMarkNotFound
		}
		return nil, fmt.Errorf("error retrieving marks: %w", err)
	}
	return &m, nil
}

// Upsert writes every component and the total of an enrollment's marks
func (r *MarkRepository) Upsert(ctx context.Context, mark *models.StudentMark) error {
	mark.UpdatedAt = time.Now().UTC()

	sql, args, err := r.sb.Insert("student_marks").
		Columns("enrollment_id", "assignment1", "assignment2", "quiz1", "quiz2", "quiz3", "quiz4",
			"mid1", "mid2", "final_exam", "grace_marks", "total", "updated_by", "updated_at").
		Values(mark.EnrollmentID, mark.Assignment1, mark.Assignment2, mark.Quiz1, mark.Quiz2, mark.Quiz3, mark.Quiz4,
			mark.Mid1, mark.Mid2, mark.FinalExam, mark.GraceMarks, mark.Total, mark.UpdatedBy, mark.UpdatedAt).
		Suffix(`ON CONFLICT (enrollment_id) DO UPDATE SET
			assignment1 = EXCLUDED.assignment1, assignment2 = EXCLUDED.assignment2,
			quiz1 = EXCLUDED.quiz1, quiz2 = EXCLUDED.quiz2, quiz3 = EXCLUDED.quiz3, quiz4 = EXCLUDED.quiz4,
			mid1 = EXCLUDED.mid1, mid2 = EXCLUDED.mid2, final_exam = EXCLUDED.final_exam,
			grace_marks = EXCLUDED.grace_marks, total = EXCLUDED.total,
			updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
			RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert marks query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&mark.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", mark.EnrollmentID).Msg("Error upserting marks")
		return fmt.Errorf("error saving marks: %w", err)
	}
	return nil
}
