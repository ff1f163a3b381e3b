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

const enrollmentUniqueConstraint = "enrollments_user_course_term_key"

var enrollmentColumns = []string{"id", "user_id", "course_id", "term_id", "status", "enrolled_at", "updated_at"}

// EnrollmentRepository handles enrollment persistence
type EnrollmentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(conn db.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: conn, sb: newBuilder()}
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var (
		e      models.Enrollment
		status string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.TermID, &status, &e.EnrolledAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = models.EnrollmentStatus(status)
	return &e, nil
}

// Create inserts an enrollment; a second row for the same (user, course, term) is a conflict
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	now := time.Now().UTC()
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentEnrolled
	}

	sql, args, err := r.sb.Insert("enrollments").
		Columns("user_id", "course_id", "term_id", "status", "enrolled_at", "updated_at").
		Values(enrollment.UserID, enrollment.CourseID, enrollment.TermID, string(enrollment.Status), now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&enrollment.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, enrollmentUniqueConstraint) {
			return apperrors.ErrDuplicateEnrollment
		}
		logger.Error().Err(err).
			Int64("userID", enrollment.UserID).
			Int64("courseID", enrollment.CourseID).
			Msg("Error creating enrollment")
		return fmt.Errorf("error creating enrollment: %w", err)
	}
	enrollment.EnrolledAt = now
	enrollment.UpdatedAt = now
	return nil
}

func (r *EnrollmentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentColumns...).From("enrollments").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	e, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	return e, nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUserCourseTerm retrieves the enrollment of a user in a course term
func (r *EnrollmentRepository) GetByUserCourseTerm(ctx context.Context, userID, courseID, termID int64) (*models.Enrollment, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID, "course_id": courseID, "term_id": termID})
}

// UpdateStatus transitions an enrollment
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	sql, args, err := r.sb.Update("enrollments").
		Set("status", string(status)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update enrollment status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error updating enrollment status")
		return fmt.Errorf("error updating enrollment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// List returns enrollments matching filter, newest first
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.Enrollment, error) {
	q := r.sb.Select(enrollmentColumns...).From("enrollments")
	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.CourseID != nil {
		q = q.Where(squirrel.Eq{"course_id": *filter.CourseID})
	}
	if filter.TermID != nil {
		q = q.Where(squirrel.Eq{"term_id": *filter.TermID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where(squirrel.Eq{"status": statuses})
	}

	sql, args, err := q.OrderBy("enrolled_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// CountByStatus counts the enrollments of a course term having status
func (r *EnrollmentRepository) CountByStatus(ctx context.Context, courseID, termID int64, status models.EnrollmentStatus) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("enrollments").
		Where(squirrel.Eq{"course_id": courseID, "term_id": termID, "status": string(status)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count enrollments query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return count, nil
}

// SumCreditHours sums the course credit hours of a user's enrollments in a term
func (r *EnrollmentRepository) SumCreditHours(ctx context.Context, userID, termID int64, status models.EnrollmentStatus) (int, error) {
	sql, args, err := r.sb.Select("COALESCE(SUM(c.credit_hours), 0)").
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where(squirrel.Eq{"e.user_id": userID, "e.term_id": termID, "e.status": string(status)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build sum credit hours query: %w", err)
	}

	var sum int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("error summing credit hours: %w", err)
	}
	return sum, nil
}

// Roster returns the non-dropped enrollments of a course term with their students and marks
func (r *EnrollmentRepository) Roster(ctx context.Context, courseID, termID int64) ([]models.RosterEntry, error) {
	sql, args, err := r.sb.Select(
		"e.id", "e.user_id", "e.course_id", "e.term_id", "e.status", "e.enrolled_at", "e.updated_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role", "u.program", "u.semester", "u.section", "u.is_active",
		"m.id", "m.assignment1", "m.assignment2", "m.quiz1", "m.quiz2", "m.quiz3", "m.quiz4",
		"m.mid1", "m.mid2", "m.final_exam", "m.grace_marks", "m.total", "m.updated_by", "m.updated_at",
	).
		From("enrollments e").
		Join("users u ON u.id = e.user_id").
		LeftJoin("student_marks m ON m.enrollment_id = e.id").
		Where(squirrel.Eq{"e.course_id": courseID, "e.term_id": termID}).
		Where(squirrel.NotEq{"e.status": string(models.EnrollmentDropped)}).
		OrderBy("u.last_name", "u.first_name", "e.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build roster query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("termID", termID).Msg("Error executing roster query")
		return nil, fmt.Errorf("error loading roster: %w", err)
	}
	defer rows.Close()

	roster := make([]models.RosterEntry, 0)
	for rows.Next() {
		var (
			entry         models.RosterEntry
			status, role  string
			markID        *int64
			mark          models.StudentMark
			markUpdatedAt *time.Time
		)
		err := rows.Scan(
			&entry.Enrollment.ID, &entry.Enrollment.UserID, &entry.Enrollment.CourseID, &entry.Enrollment.TermID,
			&status, &entry.Enrollment.EnrolledAt, &entry.Enrollment.UpdatedAt,
			&entry.Student.ID, &entry.Student.Email, &entry.Student.FirstName, &entry.Student.LastName, &role,
			&entry.Student.Program, &entry.Student.Semester, &entry.Student.Section, &entry.Student.IsActive,
			&markID, &mark.Assignment1, &mark.Assignment2, &mark.Quiz1, &mark.Quiz2, &mark.Quiz3, &mark.Quiz4,
			&mark.Mid1, &mark.Mid2, &mark.FinalExam, &mark.GraceMarks, &mark.Total, &mark.UpdatedBy, &markUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning roster row: %w", err)
		}
		entry.Enrollment.Status = models.EnrollmentStatus(status)
		entry.Student.Role = models.RoleType(role)
		if markID != nil {
			mark.ID = *markID
			mark.EnrollmentID = entry.Enrollment.ID
			if markUpdatedAt != nil {
				mark.UpdatedAt = *markUpdatedAt
			}
			entry.Mark = &mark
		}
		roster = append(roster, entry)
	}
	return roster, rows.Err()
}
