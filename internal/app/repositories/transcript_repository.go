package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/db"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// TranscriptRepository handles finalized grades
type TranscriptRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewTranscriptRepository creates a new TranscriptRepository
func NewTranscriptRepository(conn db.DBTX) *TranscriptRepository {
	return &TranscriptRepository{db: conn, sb: newBuilder()}
}

// Upsert writes a transcript row keyed by (user, course, term, status)
func (r *TranscriptRepository) Upsert(ctx context.Context, t *models.Transcript) error {
	if t.Status == "" {
		t.Status = models.TranscriptFinal
	}
	t.FinalizedAt = time.Now().UTC()

	sql, args, err := r.sb.Insert("transcripts").
		Columns("user_id", "course_id", "term_id", "grade", "grade_points", "status", "finalized_at").
		Values(t.UserID, t.CourseID, t.TermID, t.Grade, t.GradePoints, string(t.Status), t.FinalizedAt).
		Suffix(`ON CONFLICT (user_id, course_id, term_id, status) DO UPDATE SET
			grade = EXCLUDED.grade, grade_points = EXCLUDED.grade_points, finalized_at = EXCLUDED.finalized_at
			RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert transcript query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.ID); err != nil {
		logger.Error().Err(err).Int64("userID", t.UserID).Int64("courseID", t.CourseID).Msg("Error upserting transcript")
		return fmt.Errorf("error saving transcript: %w", err)
	}
	return nil
}

// ListByUser returns the final transcript rows of a user joined with course and term
func (r *TranscriptRepository) ListByUser(ctx context.Context, userID int64) ([]models.TranscriptLine, error) {
	sql, args, err := r.sb.Select(
		"t.id", "t.user_id", "t.course_id", "t.term_id", "t.grade", "t.grade_points", "t.status", "t.finalized_at",
		"c.code", "c.title", "c.credit_hours", "tm.name",
	).
		From("transcripts t").
		Join("courses c ON c.id = t.course_id").
		Join("terms tm ON tm.id = t.term_id").
		Where(squirrel.Eq{"t.user_id": userID, "t.status": string(models.TranscriptFinal)}).
		OrderBy("tm.start_date", "c.code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build transcript query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading transcript: %w", err)
	}
	defer rows.Close()

	lines := make([]models.TranscriptLine, 0)
	for rows.Next() {
		var (
			l      models.TranscriptLine
			status string
		)
		err := rows.Scan(&l.ID, &l.UserID, &l.CourseID, &l.TermID, &l.Grade, &l.GradePoints, &status, &l.FinalizedAt,
			&l.CourseCode, &l.CourseTitle, &l.CreditHours, &l.TermName)
		if err != nil {
			return nil, fmt.Errorf("error scanning transcript row: %w", err)
		}
		l.Status = models.TranscriptStatus(status)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
