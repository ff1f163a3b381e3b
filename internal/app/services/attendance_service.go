package services

import (
	"context"
	"fmt"
	"time"

	authz "github.com/yigit/uniportal/internal/app/auth"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/attendance"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// AttendanceService records class sessions and reports attendance
type AttendanceService interface {
	// Record stores one session for enrollments of the actor's course population.
	// Either every record is stored or none is.
	Record(ctx context.Context, actor *models.User, courseID int64, req *dto.AttendanceRequest) (*dto.AttendanceRecordedResponse, error)
	CourseReport(ctx context.Context, actor *models.User, courseID int64, query *dto.GradebookQuery) (*dto.AttendanceReport, error)
	StudentAttendance(ctx context.Context, student *models.User, termID int64) (*dto.StudentAttendanceResponse, error)
}

type attendanceServiceImpl struct {
	store *repositories.Store
	authz *authz.AuthorizationService
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(store *repositories.Store, authzService *authz.AuthorizationService) AttendanceService {
	return &attendanceServiceImpl{store: store, authz: authzService}
}

func (s *attendanceServiceImpl) Record(ctx context.Context, actor *models.User, courseID int64, req *dto.AttendanceRequest) (*dto.AttendanceRecordedResponse, error) {
	date, err := time.Parse(dto.SessionDateLayout, req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid session date", map[string]interface{}{"date": "must be YYYY-MM-DD"})
	}
	if _, err := s.store.Terms.GetByID(ctx, req.TermID); err != nil {
		return nil, err
	}

	_, scope, err := s.authz.AuthorizeCourse(ctx, actor, courseID, req.Section)
	if err != nil {
		return nil, err
	}

	roster, err := s.store.Enrollments.Roster(ctx, courseID, req.TermID)
	if err != nil {
		return nil, fmt.Errorf("error loading roster: %w", err)
	}
	byEnrollment := make(map[int64]models.RosterEntry, len(roster))
	for _, r := range roster {
		byEnrollment[r.Enrollment.ID] = r
	}

	seen := make(map[int64]struct{}, len(req.Records))
	for _, rec := range req.Records {
		if _, dup := seen[rec.EnrollmentID]; dup {
			return nil, apperrors.NewValidationError("Duplicate enrollment in session", map[string]interface{}{
				"enrollmentId": rec.EnrollmentID,
			})
		}
		seen[rec.EnrollmentID] = struct{}{}

		entry, ok := byEnrollment[rec.EnrollmentID]
		if !ok {
			return nil, fmt.Errorf("%w: enrollment %d is not on the roster", apperrors.ErrEnrollmentNotFound, rec.EnrollmentID)
		}
		if !scope.Includes(entry.Student.Section) {
			return nil, fmt.Errorf("%w: enrollment %d is outside your sections", apperrors.ErrNotCourseInstructor, rec.EnrollmentID)
		}
		if entry.Enrollment.Status != models.EnrollmentEnrolled {
			return nil, fmt.Errorf("%w: enrollment %d", apperrors.ErrEnrollmentNotActive, rec.EnrollmentID)
		}
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		for _, rec := range req.Records {
			if err := repos.Attendance.Upsert(ctx, &models.AttendanceRecord{
				EnrollmentID: rec.EnrollmentID,
				SessionDate:  date,
				Status:       rec.Status,
				MarkedBy:     &actor.ID,
			}); err != nil {
				return fmt.Errorf("error saving attendance of enrollment %d: %w", rec.EnrollmentID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("actorID", actor.ID).Int64("courseID", courseID).Str("date", req.Date).
		Int("records", len(req.Records)).Msg("Attendance recorded")
	return &dto.AttendanceRecordedResponse{
		CourseID: courseID,
		TermID:   req.TermID,
		Date:     req.Date,
		Recorded: len(req.Records),
	}, nil
}

func (s *attendanceServiceImpl) CourseReport(ctx context.Context, actor *models.User, courseID int64, query *dto.GradebookQuery) (*dto.AttendanceReport, error) {
	if _, err := s.store.Terms.GetByID(ctx, query.TermID); err != nil {
		return nil, err
	}

	_, scope, err := s.authz.AuthorizeCourse(ctx, actor, courseID, query.Section)
	if err != nil {
		return nil, err
	}

	roster, err := s.store.Enrollments.Roster(ctx, courseID, query.TermID)
	if err != nil {
		return nil, fmt.Errorf("error loading roster: %w", err)
	}
	population := scope.Filter(roster)

	ids := make([]int64, 0, len(population))
	for _, r := range population {
		ids = append(ids, r.Enrollment.ID)
	}
	records, err := s.store.Attendance.ListByEnrollments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading attendance: %w", err)
	}
	grouped := attendance.ByEnrollment(records)

	report := &dto.AttendanceReport{
		CourseID: courseID,
		TermID:   query.TermID,
		Section:  scope.Section,
		Students: make([]dto.AttendanceReportRow, 0, len(population)),
	}
	for _, r := range population {
		report.Students = append(report.Students, dto.AttendanceReportRow{
			EnrollmentID: r.Enrollment.ID,
			UserID:       r.Student.ID,
			Name:         r.Student.FullName(),
			Section:      r.Student.Section,
			Summary:      attendance.Summarize(grouped[r.Enrollment.ID]),
		})
	}
	return report, nil
}

func (s *attendanceServiceImpl) StudentAttendance(ctx context.Context, student *models.User, termID int64) (*dto.StudentAttendanceResponse, error) {
	if _, err := s.store.Terms.GetByID(ctx, termID); err != nil {
		return nil, err
	}

	enrollments, err := s.store.Enrollments.List(ctx, models.EnrollmentFilter{
		UserID:   &student.ID,
		TermID:   &termID,
		Statuses: []models.EnrollmentStatus{models.EnrollmentEnrolled, models.EnrollmentCompleted},
	})
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}

	ids := make([]int64, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.ID)
	}
	records, err := s.store.Attendance.ListByEnrollments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading attendance: %w", err)
	}
	grouped := attendance.ByEnrollment(records)

	resp := &dto.StudentAttendanceResponse{TermID: termID, Courses: make([]dto.CourseAttendance, 0, len(enrollments))}
	for _, e := range enrollments {
		course, err := s.store.Courses.GetByID(ctx, e.CourseID)
		if err != nil {
			return nil, err
		}
		own := grouped[e.ID]
		resp.Courses = append(resp.Courses, dto.CourseAttendance{
			EnrollmentID: e.ID,
			CourseID:     course.ID,
			CourseCode:   course.Code,
			CourseTitle:  course.Title,
			Summary:      attendance.Summarize(own),
			Sessions:     dto.NewAttendanceSessions(own),
		})
	}
	return resp, nil
}
