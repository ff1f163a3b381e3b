package services

import (
	"context"
	"fmt"
	"sort"

	authz "github.com/yigit/uniportal/internal/app/auth"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/grading"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// GradebookService covers mark entry, gradebook views and grade finalization
type GradebookService interface {
	// StudentMarks returns the student's own marks with statistics of their section
	StudentMarks(ctx context.Context, student *models.User, courseID, termID int64) (*dto.StudentMarksResponse, error)
	Gradebook(ctx context.Context, actor *models.User, courseID int64, query *dto.GradebookQuery) (*dto.GradebookResponse, error)
	UpdateMarks(ctx context.Context, actor *models.User, enrollmentID int64, req *dto.MarksRequest) (*dto.MarkResponse, error)
	// Finalize grades every marked enrollment of the population in one transaction
	Finalize(ctx context.Context, actor *models.User, courseID int64, req *dto.FinalizeRequest) (*dto.FinalizeResponse, error)
}

type gradebookServiceImpl struct {
	store         *repositories.Store
	authz         *authz.AuthorizationService
	notifications NotificationService
}

// NewGradebookService creates a new GradebookService
func NewGradebookService(
	store *repositories.Store,
	authzService *authz.AuthorizationService,
	notifications NotificationService,
) GradebookService {
	return &gradebookServiceImpl{
		store:         store,
		authz:         authzService,
		notifications: notifications,
	}
}

func (s *gradebookServiceImpl) StudentMarks(ctx context.Context, student *models.User, courseID, termID int64) (*dto.StudentMarksResponse, error) {
	enrollment, err := s.store.Enrollments.GetByUserCourseTerm(ctx, student.ID, courseID, termID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status == models.EnrollmentDropped {
		return nil, apperrors.ErrEnrollmentNotFound
	}

	resp := &dto.StudentMarksResponse{
		CourseID: courseID,
		TermID:   termID,
		Section:  student.Section,
		Status:   enrollment.Status,
		Stats:    grading.EmptyStats(),
	}

	roster, err := s.store.Enrollments.Roster(ctx, courseID, termID)
	if err != nil {
		return nil, fmt.Errorf("error loading roster: %w", err)
	}

	var own *models.StudentMark
	for _, r := range roster {
		if r.Enrollment.ID == enrollment.ID {
			own = r.Mark
			break
		}
	}
	resp.Marks = dto.NewMarkResponse(enrollment.ID, own)

	if grading.NormalizeSection(student.Section) == "" {
		return resp, nil
	}
	classmates := grading.FilterRoster(roster, func(section string) bool {
		return grading.SameSection(student.Section, section)
	})
	resp.Stats = grading.ComputeFieldStats(grading.MarksOf(classmates))
	return resp, nil
}

func (s *gradebookServiceImpl) Gradebook(ctx context.Context, actor *models.User, courseID int64, query *dto.GradebookQuery) (*dto.GradebookResponse, error) {
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

	resp := &dto.GradebookResponse{
		CourseID: courseID,
		TermID:   query.TermID,
		Section:  scope.Section,
		Students: make([]dto.GradebookRow, 0, len(population)),
		Stats:    grading.ComputeFieldStats(grading.MarksOf(population)),
	}
	for _, r := range population {
		resp.Students = append(resp.Students, dto.GradebookRow{
			EnrollmentID: r.Enrollment.ID,
			UserID:       r.Student.ID,
			Name:         r.Student.FullName(),
			Email:        r.Student.Email,
			Section:      r.Student.Section,
			Status:       r.Enrollment.Status,
			Marks:        dto.NewMarkResponse(r.Enrollment.ID, r.Mark),
		})
	}
	return resp, nil
}

func (s *gradebookServiceImpl) UpdateMarks(ctx context.Context, actor *models.User, enrollmentID int64, req *dto.MarksRequest) (*dto.MarkResponse, error) {
	enrollment, err := s.store.Enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status == models.EnrollmentDropped {
		return nil, apperrors.ErrEnrollmentNotActive
	}

	student, err := s.store.Users.GetByID(ctx, enrollment.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.AuthorizeStudent(ctx, actor, enrollment.CourseID, student); err != nil {
		return nil, err
	}

	mark := req.ToModel(enrollmentID)
	mark.RecomputeTotal()
	mark.UpdatedBy = &actor.ID
	if err := s.store.Marks.Upsert(ctx, mark); err != nil {
		return nil, fmt.Errorf("error saving marks: %w", err)
	}

	logger.Info().Int64("actorID", actor.ID).Int64("enrollmentID", enrollmentID).Msg("Marks updated")
	resp := dto.NewMarkResponse(enrollmentID, mark)
	return &resp, nil
}

func (s *gradebookServiceImpl) Finalize(ctx context.Context, actor *models.User, courseID int64, req *dto.FinalizeRequest) (*dto.FinalizeResponse, error) {
	term, err := s.store.Terms.GetByID(ctx, req.TermID)
	if err != nil {
		return nil, err
	}

	course, scope, err := s.authz.AuthorizeCourse(ctx, actor, courseID, req.Section)
	if err != nil {
		return nil, err
	}

	resp := &dto.FinalizeResponse{Results: make([]dto.FinalizeResult, 0)}
	graded := make([]models.User, 0)

	err = s.store.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		roster, err := repos.Enrollments.Roster(ctx, courseID, req.TermID)
		if err != nil {
			return fmt.Errorf("error loading roster: %w", err)
		}
		population := scope.Filter(roster)
		resp.Total = len(population)

		for _, r := range population {
			if r.Mark == nil || r.Mark.Total == nil {
				resp.Skipped++
				continue
			}
			total := *r.Mark.Total
			grade := grading.ScoreToGrade(total)

			if err := repos.Transcripts.Upsert(ctx, &models.Transcript{
				UserID:      r.Student.ID,
				CourseID:    courseID,
				TermID:      req.TermID,
				Grade:       grade.Letter,
				GradePoints: grade.Points,
				Status:      models.TranscriptFinal,
			}); err != nil {
				return fmt.Errorf("error saving transcript of enrollment %d: %w", r.Enrollment.ID, err)
			}
			if err := repos.Enrollments.UpdateStatus(ctx, r.Enrollment.ID, models.EnrollmentCompleted); err != nil {
				return fmt.Errorf("error completing enrollment %d: %w", r.Enrollment.ID, err)
			}

			resp.Processed++
			resp.Results = append(resp.Results, dto.FinalizeResult{
				EnrollmentID: r.Enrollment.ID,
				UserID:       r.Student.ID,
				Total:        total,
				Grade:        grade.Letter,
				GradePoints:  grade.Points,
			})
			graded = append(graded, r.Student)
		}

		sort.Slice(graded, func(i, j int) bool { return graded[i].ID < graded[j].ID })
		for i := range graded {
			cgpa, err := RefreshCGPA(ctx, repos, graded[i].ID)
			if err != nil {
				return err
			}
			graded[i].CGPA = cgpa
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("termID", req.TermID).Msg("Grade finalization rolled back")
		return nil, err
	}

	logger.Info().
		Int64("actorID", actor.ID).
		Int64("courseID", courseID).
		Int64("termID", req.TermID).
		Str("section", scope.Section).
		Int("processed", resp.Processed).
		Int("skipped", resp.Skipped).
		Msg("Grades finalized")

	s.notifyGraded(ctx, course, term, graded, resp.Results)
	return resp, nil
}

// notifyGraded tells each graded student their result. Failures are logged only.
func (s *gradebookServiceImpl) notifyGraded(ctx context.Context, course *models.Course, term *models.Term, students []models.User, results []dto.FinalizeResult) {
	if s.notifications == nil {
		return
	}
	byUser := make(map[int64]dto.FinalizeResult, len(results))
	for _, r := range results {
		byUser[r.UserID] = r
	}
	for i := range students {
		student := &students[i]
		r := byUser[student.ID]
		title := fmt.Sprintf("Final grade published: %s", course.Code)
		body := fmt.Sprintf("Your final grade for %s %s (%s) is %s (%.2f grade points).",
			course.Code, course.Title, term.Name, r.Grade, r.GradePoints)
		if err := s.notifications.Notify(ctx, student, title, body); err != nil {
			logger.Warn().Err(err).Int64("userID", student.ID).Int64("courseID", course.ID).Msg("Failed to notify graded student")
		}
	}
}
