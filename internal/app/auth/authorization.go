package auth

import (
	"context"
	"fmt"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/grading"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// Scope is the student population of a course that a user may read or grade
type Scope struct {
	// Section is the normalized section that was requested, empty when none was
	Section string

	all            bool
	unassigned     bool
	sections       grading.SectionSet
	courseSections grading.SectionSet
}

// Includes reports whether a student with the given section belongs to the scope
func (s *Scope) Includes(studentSection string) bool {
	switch {
	case s.all:
		return true
	case s.unassigned:
		return !s.courseSections.Contains(studentSection)
	default:
		return s.sections.Contains(studentSection)
	}
}

// Filter keeps the roster entries inside the scope
func (s *Scope) Filter(roster []models.RosterEntry) []models.RosterEntry {
	return grading.FilterRoster(roster, s.Includes)
}

// AuthorizationService decides which course populations a user may see
type AuthorizationService struct {
	courses repositories.ICourseRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(courses repositories.ICourseRepository) *AuthorizationService {
	return &AuthorizationService{courses: courses}
}

// OwnedSections returns the names of the course sections taught by instructorID
func OwnedSections(course *models.Course, instructorID int64) grading.SectionSet {
	owned := make([]*models.Section, 0)
	for _, s := range course.Sections {
		if s.InstructorID != nil && *s.InstructorID == instructorID {
			owned = append(owned, s)
		}
	}
	return grading.SectionsOf(owned)
}

// IsCourseInstructor reports whether the user teaches at least one section of the course
func IsCourseInstructor(course *models.Course, user *models.User) bool {
	if user == nil || user.Role != models.RoleFaculty {
		return false
	}
	return len(OwnedSections(course, user.ID)) > 0
}

// ResolveScope works out the population of course that user may access for the
// requested section. An empty section means every section the user is responsible for.
func ResolveScope(course *models.Course, user *models.User, section string) (*Scope, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	requested := grading.NormalizeSection(section)
	courseSections := grading.SectionsOf(course.Sections)
	scope := &Scope{Section: requested, courseSections: courseSections}

	switch user.Role {
	case models.RoleAdmin:
		switch {
		case requested == "":
			scope.all = true
		case requested == grading.UnassignedSection:
			scope.unassigned = true
		case courseSections.Contains(requested):
			scope.sections = grading.NewSectionSet(requested)
		default:
			return nil, apperrors.ErrSectionNotFound
		}
		return scope, nil

	case models.RoleFaculty:
		owned := OwnedSections(course, user.ID)
		if len(owned) == 0 {
			return nil, apperrors.ErrNotCourseInstructor
		}
		switch {
		case requested == "":
			scope.sections = owned
		case owned.Contains(requested):
			scope.sections = grading.NewSectionSet(requested)
		default:
			// covers "unassigned" too: it can never intersect an owned section
			return nil, apperrors.ErrNotCourseInstructor
		}
		return scope, nil
	}

	return nil, apperrors.ErrPermissionDenied
}

// AuthorizeCourse loads the course and resolves the user's scope on it
func (s *AuthorizationService) AuthorizeCourse(ctx context.Context, user *models.User, courseID int64, section string) (*models.Course, *Scope, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}

	scope, err := ResolveScope(course, user, section)
	if err != nil {
		if user != nil {
			logger.Debug().Err(err).Int64("userID", user.ID).Int64("courseID", courseID).Str("section", section).Msg("Course access denied")
		}
		return nil, nil, err
	}
	return course, scope, nil
}

// AuthorizeStudent checks that user may grade the given student of a course
func (s *AuthorizationService) AuthorizeStudent(ctx context.Context, user *models.User, courseID int64, student *models.User) (*models.Course, error) {
	course, scope, err := s.AuthorizeCourse(ctx, user, courseID, "")
	if err != nil {
		return nil, err
	}
	if !scope.Includes(student.Section) {
		return nil, fmt.Errorf("%w: student %d is outside your sections", apperrors.ErrNotCourseInstructor, student.ID)
	}
	return course, nil
}
