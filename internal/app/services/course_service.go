package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/helpers"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// CourseService manages the course catalogue and its sections
type CourseService interface {
	List(ctx context.Context, req *dto.CourseFilterRequest) (*dto.CourseListResponse, error)
	Get(ctx context.Context, id int64) (*dto.CourseResponse, error)
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	CreateSection(ctx context.Context, courseID int64, req *dto.CreateSectionRequest) (*dto.SectionResponse, error)
	AssignInstructor(ctx context.Context, sectionID int64, req *dto.AssignInstructorRequest) (*dto.SectionResponse, error)
	// ListTaught returns the courses where instructorID teaches a section
	ListTaught(ctx context.Context, instructorID int64) ([]dto.CourseResponse, error)
}

type courseServiceImpl struct {
	courses repositories.ICourseRepository
	users   repositories.IUserRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(courses repositories.ICourseRepository, users repositories.IUserRepository) CourseService {
	return &courseServiceImpl{courses: courses, users: users}
}

func (s *courseServiceImpl) List(ctx context.Context, req *dto.CourseFilterRequest) (*dto.CourseListResponse, error) {
	offset, limit := pageBounds(req.Page, req.Size)
	courses, total, err := s.courses.List(ctx, models.CourseFilter{
		Department: strings.TrimSpace(req.Department),
		IsActive:   req.Active,
		Search:     strings.TrimSpace(req.Search),
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	items := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		items = append(items, dto.NewCourseResponse(c))
	}
	return &dto.CourseListResponse{
		Courses:    items,
		Pagination: helpers.NewPaginationInfo(total, req.Page, limit),
	}, nil
}

func (s *courseServiceImpl) Get(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

func (s *courseServiceImpl) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &models.Course{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Title:       strings.TrimSpace(req.Title),
		CreditHours: req.CreditHours,
		Capacity:    req.Capacity,
		Department:  strings.TrimSpace(req.Department),
		IsActive:    true,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	logger.Info().Int64("courseID", course.ID).Str("code", course.Code).Msg("Course created")
	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

func (s *courseServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.CreditHours != nil {
		course.CreditHours = *req.CreditHours
	}
	if req.Capacity != nil {
		course.Capacity = *req.Capacity
	}
	if req.Department != nil {
		course.Department = strings.TrimSpace(*req.Department)
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

// checkInstructor requires instructorID to be an active faculty user
func (s *courseServiceImpl) checkInstructor(ctx context.Context, instructorID int64) error {
	user, err := s.users.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewValidationError("Instructor does not exist", map[string]interface{}{
				"instructorId": "must reference an existing faculty user",
			})
		}
		return err
	}
	if user.Role != models.RoleFaculty || !user.IsActive {
		return apperrors.NewValidationError("Instructor must be an active faculty user", map[string]interface{}{
			"instructorId": "must reference an active faculty user",
		})
	}
	return nil
}

func (s *courseServiceImpl) CreateSection(ctx context.Context, courseID int64, req *dto.CreateSectionRequest) (*dto.SectionResponse, error) {
	if req.InstructorID != nil {
		if err := s.checkInstructor(ctx, *req.InstructorID); err != nil {
			return nil, err
		}
	}

	section := &models.Section{
		CourseID:     courseID,
		Name:         strings.TrimSpace(req.Name),
		InstructorID: req.InstructorID,
	}
	if err := s.courses.CreateSection(ctx, section); err != nil {
		return nil, err
	}
	logger.Info().Int64("courseID", courseID).Int64("sectionID", section.ID).Str("name", section.Name).Msg("Section created")
	resp := dto.NewSectionResponse(section)
	return &resp, nil
}

func (s *courseServiceImpl) AssignInstructor(ctx context.Context, sectionID int64, req *dto.AssignInstructorRequest) (*dto.SectionResponse, error) {
	if req.InstructorID != nil {
		if err := s.checkInstructor(ctx, *req.InstructorID); err != nil {
			return nil, err
		}
	}
	if err := s.courses.UpdateSectionInstructor(ctx, sectionID, req.InstructorID); err != nil {
		return nil, err
	}
	section, err := s.courses.GetSectionByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewSectionResponse(section)
	return &resp, nil
}

func (s *courseServiceImpl) ListTaught(ctx context.Context, instructorID int64) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("error listing taught courses: %w", err)
	}
	resp := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, dto.NewCourseResponse(c))
	}
	return resp, nil
}
