package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// EnrollmentService handles student course registration
type EnrollmentService interface {
	// Enroll registers the student into a course of the active term
	Enroll(ctx context.Context, student *models.User, courseID int64) (*dto.EnrollmentResponse, error)
	Drop(ctx context.Context, student *models.User, enrollmentID int64) (*dto.EnrollmentResponse, error)
	ListMine(ctx context.Context, student *models.User, termID *int64) ([]dto.EnrollmentResponse, error)
}

type enrollmentServiceImpl struct {
	store    *repositories.Store
	settings SettingsService
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(store *repositories.Store, settings SettingsService) EnrollmentService {
	return &enrollmentServiceImpl{store: store, settings: settings}
}

func (s *enrollmentServiceImpl) Enroll(ctx context.Context, student *models.User, courseID int64) (*dto.EnrollmentResponse, error) {
	current := s.settings.Current()
	if !current.EnrollmentOpen {
		return nil, apperrors.ErrEnrollmentClosed
	}

	var (
		enrollment *models.Enrollment
		course     *models.Course
	)
	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		term, err := repos.Terms.GetActive(ctx)
		if err != nil {
			return err
		}

		course, err = repos.Courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}
		if !course.IsActive {
			return apperrors.ErrCourseInactive
		}

		existing, err := repos.Enrollments.GetByUserCourseTerm(ctx, student.ID, courseID, term.ID)
		switch {
		case err == nil && existing.Status != models.EnrollmentDropped:
			return apperrors.ErrDuplicateEnrollment
		case err != nil && !errors.Is(err, apperrors.ErrEnrollmentNotFound):
			return fmt.Errorf("error checking enrollment: %w", err)
		}

		if course.Capacity > 0 {
			enrolled, err := repos.Enrollments.CountByStatus(ctx, courseID, term.ID, models.EnrollmentEnrolled)
			if err != nil {
				return fmt.Errorf("error counting enrollments: %w", err)
			}
			if enrolled >= course.Capacity {
				return apperrors.ErrCourseFull
			}
		}

		load, err := repos.Enrollments.SumCreditHours(ctx, student.ID, term.ID, models.EnrollmentEnrolled)
		if err != nil {
			return fmt.Errorf("error summing credit hours: %w", err)
		}
		if load+course.CreditHours > current.MaxCreditHours {
			return fmt.Errorf("%w: %d enrolled + %d requested exceeds %d",
				apperrors.ErrCreditLimitExceeded, load, course.CreditHours, current.MaxCreditHours)
		}

		if existing != nil {
			if err := repos.Enrollments.UpdateStatus(ctx, existing.ID, models.EnrollmentEnrolled); err != nil {
				return err
			}
			existing.Status = models.EnrollmentEnrolled
			enrollment = existing
			return nil
		}

		enrollment = &models.Enrollment{
			UserID:   student.ID,
			CourseID: courseID,
			TermID:   term.ID,
			Status:   models.EnrollmentEnrolled,
		}
		return repos.Enrollments.Create(ctx, enrollment)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", student.ID).Int64("courseID", courseID).Int64("enrollmentID", enrollment.ID).Msg("Student enrolled")
	resp := dto.NewEnrollmentResponse(enrollment, course)
	return &resp, nil
}

func (s *enrollmentServiceImpl) Drop(ctx context.Context, student *models.User, enrollmentID int64) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.store.Enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.UserID != student.ID {
		// someone else's enrollment is reported as missing
		return nil, apperrors.ErrEnrollmentNotFound
	}
	if enrollment.Status != models.EnrollmentEnrolled {
		return nil, apperrors.ErrEnrollmentNotActive
	}

	if err := s.store.Enrollments.UpdateStatus(ctx, enrollmentID, models.EnrollmentDropped); err != nil {
		return nil, err
	}
	enrollment.Status = models.EnrollmentDropped

	course, err := s.store.Courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		course = nil
	}
	logger.Info().Int64("userID", student.ID).Int64("enrollmentID", enrollmentID).Msg("Enrollment dropped")
	resp := dto.NewEnrollmentResponse(enrollment, course)
	return &resp, nil
}

func (s *enrollmentServiceImpl) ListMine(ctx context.Context, student *models.User, termID *int64) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.store.Enrollments.List(ctx, models.EnrollmentFilter{
		UserID: &student.ID,
		TermID: termID,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}

	courses := newCourseCache(s.store.Courses)
	resp := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		course, err := courses.get(ctx, e.CourseID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, dto.NewEnrollmentResponse(e, course))
	}
	return resp, nil
}
