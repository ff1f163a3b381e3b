package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/repositories/inmem"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

func id(v int64) *int64 { return &v }

func testCourse() *models.Course {
	return &models.Course{
		ID: 1,
		Sections: []*models.Section{
			{ID: 10, CourseID: 1, Name: "A", InstructorID: id(100)},
			{ID: 11, CourseID: 1, Name: "B ", InstructorID: id(200)},
		},
	}
}

var (
	admin    = &models.User{ID: 1, Role: models.RoleAdmin}
	facultyA = &models.User{ID: 100, Role: models.RoleFaculty}
	outsider = &models.User{ID: 300, Role: models.RoleFaculty}
	student  = &models.User{ID: 5, Role: models.RoleStudent}
)

func TestResolveScope_Admin(t *testing.T) {
	course := testCourse()

	scope, err := ResolveScope(course, admin, "")
	require.NoError(t, err)
	assert.True(t, scope.Includes("a"))
	assert.True(t, scope.Includes(""))

	scope, err = ResolveScope(course, admin, "Unassigned")
	require.NoError(t, err)
	assert.False(t, scope.Includes(" a "))
	assert.True(t, scope.Includes("C"))
	assert.True(t, scope.Includes(""))

	scope, err = ResolveScope(course, admin, "b")
	require.NoError(t, err)
	assert.True(t, scope.Includes("B"))
	assert.False(t, scope.Includes("A"))

	_, err = ResolveScope(course, admin, "Z")
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}

func TestResolveScope_Faculty(t *testing.T) {
	course := testCourse()

	scope, err := ResolveScope(course, facultyA, "")
	require.NoError(t, err)
	assert.True(t, scope.Includes("a"))
	assert.False(t, scope.Includes("B"))

	_, err = ResolveScope(course, facultyA, "B")
	assert.ErrorIs(t, err, apperrors.ErrNotCourseInstructor)

	_, err = ResolveScope(course, facultyA, "unassigned")
	assert.ErrorIs(t, err, apperrors.ErrNotCourseInstructor)

	_, err = ResolveScope(course, outsider, "")
	assert.ErrorIs(t, err, apperrors.ErrNotCourseInstructor)
}

func TestResolveScope_StudentDenied(t *testing.T) {
	_, err := ResolveScope(testCourse(), student, "")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestResolveScope_CourseWithoutSections(t *testing.T) {
	course := &models.Course{ID: 2}

	scope, err := ResolveScope(course, admin, "")
	require.NoError(t, err)
	assert.True(t, scope.Includes("anything"))

	_, err = ResolveScope(course, facultyA, "")
	assert.ErrorIs(t, err, apperrors.ErrNotCourseInstructor)
}

func TestAuthorizeStudent(t *testing.T) {
	ctx := context.Background()
	store, _ := inmem.NewStore()

	teacher := &models.User{Email: "t@uni.edu", Role: models.RoleFaculty, IsActive: true}
	require.NoError(t, store.Users.Create(ctx, teacher))
	course := &models.Course{Code: "CS101", Title: "Intro", CreditHours: 3, IsActive: true}
	require.NoError(t, store.Courses.Create(ctx, course))
	require.NoError(t, store.Courses.CreateSection(ctx, &models.Section{CourseID: course.ID, Name: "A", InstructorID: &teacher.ID}))

	svc := NewAuthorizationService(store.Courses)

	_, err := svc.AuthorizeStudent(ctx, teacher, course.ID, &models.User{ID: 9, Section: " a"})
	assert.NoError(t, err)

	_, err = svc.AuthorizeStudent(ctx, teacher, course.ID, &models.User{ID: 10, Section: "B"})
	assert.ErrorIs(t, err, apperrors.ErrNotCourseInstructor)

	_, _, err = svc.AuthorizeCourse(ctx, teacher, 999, "")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
