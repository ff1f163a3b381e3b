package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/db"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/dberrors"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

const (
	courseCodeConstraint  = "courses_code_key"
	sectionNameConstraint = "sections_course_name_key"
)

var courseColumns = []string{
	"c.id", "c.code", "c.title", "c.credit_hours", "c.capacity",
	"c.department", "c.is_active", "c.created_at", "c.updated_at",
}

// CourseRepository handles courses and their sections
type CourseRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(conn db.DBTX) *CourseRepository {
	return &CourseRepository{db: conn, sb: newBuilder()}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Code, &c.Title, &c.CreditHours, &c.Capacity,
		&c.Department, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	sql, args, err := r.sb.Insert("courses").
		Columns("code", "title", "credit_hours", "capacity", "department", "is_active", "created_at", "updated_at").
		Values(course.Code, course.Title, course.CreditHours, course.Capacity, course.Department, course.IsActive, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, courseCodeConstraint) {
			return apperrors.ErrCourseAlreadyExists
		}
		logger.Error().Err(err).Str("code", course.Code).Msg("Error creating course")
		return fmt.Errorf("error creating course: %w", err)
	}
	course.CreatedAt = now
	course.UpdatedAt = now
	return nil
}

func (r *CourseRepository) courseByID(id int64) squirrel.SelectBuilder {
	return r.sb.Select(courseColumns...).
		From("courses c").
		Where(squirrel.Eq{"c.id": id})
}

// GetByID retrieves a course with its sections
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getCourse(ctx, r.courseByID(id))
}

// GetByIDForUpdate retrieves a course and locks its row until the surrounding
// transaction ends, so concurrent enrollments into it queue behind each other.
func (r *CourseRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Course, error) {
	return r.getCourse(ctx, r.courseByID(id).Suffix("FOR UPDATE"))
}

func (r *CourseRepository) getCourse(ctx context.Context, q squirrel.SelectBuilder) (*models.Course, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	course.Sections, err = r.ListSections(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Update writes the mutable course fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	sql, args, err := r.sb.Update("courses").
		Set("title", course.Title).
		Set("credit_hours", course.CreditHours).
		Set("capacity", course.Capacity).
		Set("department", course.Department).
		Set("is_active", course.IsActive).
		Set("updated_at", course.UpdatedAt).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func applyCourseFilter(q squirrel.SelectBuilder, filter models.CourseFilter) squirrel.SelectBuilder {
	if d := strings.TrimSpace(filter.Department); d != "" {
		q = q.Where(squirrel.ILike{"c.department": d})
	}
	if filter.IsActive != nil {
		q = q.Where(squirrel.Eq{"c.is_active": *filter.IsActive})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		q = q.Where(squirrel.Or{squirrel.ILike{"c.code": pattern}, squirrel.ILike{"c.title": pattern}})
	}
	return q
}

// List returns a page of courses (without sections) and the total count
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, int, error) {
	countSQL, countArgs, err := applyCourseFilter(r.sb.Select("COUNT(*)").From("courses c"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	q := applyCourseFilter(r.sb.Select(courseColumns...).From("courses c"), filter).
		OrderBy("c.code").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	courses, err := r.queryCourses(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// ListByInstructor returns the courses in which the instructor owns a section, with sections loaded
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]*models.Course, error) {
	q := r.sb.Select(courseColumns...).
		Distinct().
		From("courses c").
		Join("sections s ON s.course_id = c.id").
		Where(squirrel.Eq{"s.instructor_id": instructorID}).
		OrderBy("c.code")

	courses, err := r.queryCourses(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return courses, nil
	}

	ids := make([]int64, len(courses))
	byID := make(map[int64]*models.Course, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
		byID[c.ID] = c
	}
	sections, err := r.listSectionsWhere(ctx, squirrel.Eq{"course_id": ids})
	if err != nil {
		return nil, err
	}
	for _, s := range sections {
		byID[s.CourseID].Sections = append(byID[s.CourseID].Sections, s)
	}
	return courses, nil
}

func (r *CourseRepository) queryCourses(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Course, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// CreateSection adds a section; names are unique per course after normalisation
func (r *CourseRepository) CreateSection(ctx context.Context, section *models.Section) error {
	sql, args, err := r.sb.Insert("sections").
		Columns("course_id", "name", "instructor_id").
		Values(section.CourseID, strings.TrimSpace(section.Name), section.InstructorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create section query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&section.ID); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, sectionNameConstraint):
			return apperrors.ErrDuplicateSection
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating section: %w", err)
	}
	section.Name = strings.TrimSpace(section.Name)
	return nil
}

// GetSectionByID retrieves one section
func (r *CourseRepository) GetSectionByID(ctx context.Context, id int64) (*models.Section, error) {
	sections, err := r.listSectionsWhere(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, apperrors.ErrSectionNotFound
	}
	return sections[0], nil
}

// ListSections returns the sections of a course ordered by name
func (r *CourseRepository) ListSections(ctx context.Context, courseID int64) ([]*models.Section, error) {
	return r.listSectionsWhere(ctx, squirrel.Eq{"course_id": courseID})
}

func (r *CourseRepository) listSectionsWhere(ctx context.Context, where squirrel.Sqlizer) ([]*models.Section, error) {
	sql, args, err := r.sb.Select("id", "course_id", "name", "instructor_id").
		From("sections").
		Where(where).
		OrderBy("name", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sections query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing sections: %w", err)
	}
	defer rows.Close()

	sections := make([]*models.Section, 0)
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Name, &s.InstructorID); err != nil {
			return nil, fmt.Errorf("error scanning section row: %w", err)
		}
		sections = append(sections, &s)
	}
	return sections, rows.Err()
}

// UpdateSectionInstructor assigns (or with nil, clears) the section instructor
func (r *CourseRepository) UpdateSectionInstructor(ctx context.Context, sectionID int64, instructorID *int64) error {
	sql, args, err := r.sb.Update("sections").
		Set("instructor_id", instructorID).
		Where(squirrel.Eq{"id": sectionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update section instructor query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error updating section instructor: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}
	return nil
}
