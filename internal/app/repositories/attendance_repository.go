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

// AttendanceRepository handles per-session attendance records
type AttendanceRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(conn db.DBTX) *AttendanceRepository {
	return &AttendanceRepository{db: conn, sb: newBuilder()}
}

// Upsert writes the status of an enrollment on a session date
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) error {
	record.UpdatedAt = time.Now().UTC()

	sql, args, err := r.sb.Insert("attendance_records").
		Columns("enrollment_id", "session_date", "status", "marked_by", "updated_at").
		Values(record.EnrollmentID, record.SessionDate, string(record.Status), record.MarkedBy, record.UpdatedAt).
		Suffix(`ON CONFLICT (enrollment_id, session_date) DO UPDATE SET
			status = EXCLUDED.status, marked_by = EXCLUDED.marked_by, updated_at = EXCLUDED.updated_at
			RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert attendance query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&record.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", record.EnrollmentID).Msg("Error upserting attendance")
		return fmt.Errorf("error saving attendance: %w", err)
	}
	return nil
}

// ListByEnrollments returns the attendance of several enrollments
func (r *AttendanceRepository) ListByEnrollments(ctx context.Context, enrollmentIDs []int64) ([]models.AttendanceRecord, error) {
	records := make([]models.AttendanceRecord, 0)
	if len(enrollmentIDs) == 0 {
		return records, nil
	}

	sql, args, err := r.sb.Select("id", "enrollment_id", "session_date", "status", "marked_by", "updated_at").
		From("attendance_records").
		Where(squirrel.Eq{"enrollment_id": enrollmentIDs}).
		OrderBy("session_date", "enrollment_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a      models.AttendanceRecord
			status string
		)
		if err := rows.Scan(&a.ID, &a.EnrollmentID, &a.SessionDate, &status, &a.MarkedBy, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		a.Status = models.AttendanceStatus(status)
		records = append(records, a)
	}
	return records, rows.Err()
}
