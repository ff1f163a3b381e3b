package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/grading"
)

type gradebookFixture struct {
	*testEnv
	teacher  *models.User
	admin    *models.User
	course   *models.Course
	term     *models.Term
	students []*models.User
	enrolled []*models.Enrollment
}

// newGradebookFixture enrolls four section A students; the first three get
// totals 90, 72 and 30, the last one has no marks
func newGradebookFixture(t *testing.T) *gradebookFixture {
	env := newTestEnv(t)
	f := &gradebookFixture{testEnv: env}
	f.teacher = env.user(t, "teacher@uni.edu", models.RoleFaculty, "")
	f.admin = env.user(t, "admin@uni.edu", models.RoleAdmin, "")
	f.term = env.activeTerm(t, "Fall 2026")
	f.course = env.course(t, "CS101", 3, 0)
	env.section(t, f.course.ID, "A", f.teacher)

	for i, total := range []float64{90, 72, 30, -1} {
		s := env.user(t, []string{"s1@uni.edu", "s2@uni.edu", "s3@uni.edu", "s4@uni.edu"}[i], models.RoleStudent, "a ")
		en := env.enroll(t, s, f.course.ID, f.term.ID)
		if total >= 0 {
			env.mark(t, en.ID, total)
		}
		f.students = append(f.students, s)
		f.enrolled = append(f.enrolled, en)
	}
	return f
}

func TestFinalize_GradesMarkedAndSkipsUnmarked(t *testing.T) {
	f := newGradebookFixture(t)

	resp, err := f.gradebook.Finalize(f.ctx, f.teacher, f.course.ID, &dto.FinalizeRequest{TermID: f.term.ID})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Processed)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 4, resp.Total)
	require.Len(t, resp.Results, 3)

	expected := []struct {
		letter string
		points float64
	}{{"A", 4.0}, {"B", 3.0}, {"F", 0.0}}
	for i, want := range expected {
		lines, err := f.store.Transcripts.ListByUser(f.ctx, f.students[i].ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, want.letter, lines[0].Grade)
		assert.Equal(t, want.points, lines[0].GradePoints)

		en, err := f.store.Enrollments.GetByID(f.ctx, f.enrolled[i].ID)
		require.NoError(t, err)
		assert.Equal(t, models.EnrollmentCompleted, en.Status)

		u, err := f.store.Users.GetByID(f.ctx, f.students[i].ID)
		require.NoError(t, err)
		require.NotNil(t, u.CGPA)
		assert.InDelta(t, want.points, *u.CGPA, 1e-9)
	}

	unmarked, err := f.store.Enrollments.GetByID(f.ctx, f.enrolled[3].ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentEnrolled, unmarked.Status)

	notes, err := f.notifications.List(f.ctx, f.students[0].ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, 3, f.mailer.count())
}

func TestFinalize_RollsBackOnFailure(t *testing.T) {
	f := newGradebookFixture(t)
	boom := errors.New("connection reset")
	f.db.FailAfter("users.update_cgpa", 2, boom)

	_, err := f.gradebook.Finalize(f.ctx, f.admin, f.course.ID, &dto.FinalizeRequest{TermID: f.term.ID})
	require.ErrorIs(t, err, boom)

	for i := range f.students {
		lines, err := f.store.Transcripts.ListByUser(f.ctx, f.students[i].ID)
		require.NoError(t, err)
		assert.Empty(t, lines)

		en, err := f.store.Enrollments.GetByID(f.ctx, f.enrolled[i].ID)
		require.NoError(t, err)
		assert.Equal(t, models.EnrollmentEnrolled, en.Status)

		u, err := f.store.Users.GetByID(f.ctx, f.students[i].ID)
		require.NoError(t, err)
		assert.Nil(t, u.CGPA)
	}
	assert.Zero(t, f.mailer.count())
}

func TestFinalize_RequiresInstructor(t *testing.T) {
	f := newGradebookFixture(t)
	outsider := f.user(t, "other@uni.edu", models.RoleFaculty, "")

	_, err := f.gradebook.Finalize(f.ctx, outsider, f.course.ID, &dto.FinalizeRequest{TermID: f.term.ID})
	assert.ErrorIs(t, err, apperrors.ErrNotCourseInstructor)

	_, err = f.gradebook.Finalize(f.ctx, f.teacher, f.course.ID, &dto.FinalizeRequest{TermID: f.term.ID, Section: grading.UnassignedSection})
	assert.ErrorIs(t, err, apperrors.ErrNotCourseInstructor)
}

func TestGradebook_SectionScope(t *testing.T) {
	f := newGradebookFixture(t)
	stray := f.user(t, "stray@uni.edu", models.RoleStudent, "Z")
	strayEnrollment := f.enroll(t, stray, f.course.ID, f.term.ID)
	f.mark(t, strayEnrollment.ID, 10)

	own, err := f.gradebook.Gradebook(f.ctx, f.teacher, f.course.ID, &dto.GradebookQuery{TermID: f.term.ID})
	require.NoError(t, err)
	assert.Len(t, own.Students, 4)
	assert.Equal(t, 30.0, own.Stats[grading.FieldTotal].Min)
	assert.Equal(t, 90.0, own.Stats[grading.FieldTotal].Max)
	assert.InDelta(t, 64.0, own.Stats[grading.FieldTotal].Avg, 1e-9)
	assert.Equal(t, grading.FieldStats{}, own.Stats[grading.FieldQuiz1])

	all, err := f.gradebook.Gradebook(f.ctx, f.admin, f.course.ID, &dto.GradebookQuery{TermID: f.term.ID})
	require.NoError(t, err)
	assert.Len(t, all.Students, 5)

	unassigned, err := f.gradebook.Gradebook(f.ctx, f.admin, f.course.ID, &dto.GradebookQuery{TermID: f.term.ID, Section: "Unassigned"})
	require.NoError(t, err)
	require.Len(t, unassigned.Students, 1)
	assert.Equal(t, stray.ID, unassigned.Students[0].UserID)
	assert.Equal(t, 10.0, unassigned.Stats[grading.FieldTotal].Avg)
}

func TestStudentMarks_StatsCoverOwnSection(t *testing.T) {
	f := newGradebookFixture(t)
	stray := f.user(t, "stray@uni.edu", models.RoleStudent, "B")
	strayEnrollment := f.enroll(t, stray, f.course.ID, f.term.ID)
	f.mark(t, strayEnrollment.ID, 100)

	resp, err := f.gradebook.StudentMarks(f.ctx, f.students[0], f.course.ID, f.term.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Marks.Total)
	assert.Equal(t, 90.0, *resp.Marks.Total)
	assert.Equal(t, 90.0, resp.Stats[grading.FieldTotal].Max)
	assert.Equal(t, 30.0, resp.Stats[grading.FieldTotal].Min)

	single, err := f.gradebook.StudentMarks(f.ctx, stray, f.course.ID, f.term.ID)
	require.NoError(t, err)
	for _, field := range grading.FieldNames() {
		if field == grading.FieldFinalExam || field == grading.FieldTotal {
			assert.Equal(t, grading.FieldStats{Min: 100, Max: 100, Avg: 100}, single.Stats[field], field)
			continue
		}
		assert.Equal(t, grading.FieldStats{}, single.Stats[field], field)
	}

	outsider := f.user(t, "nobody@uni.edu", models.RoleStudent, "A")
	_, err = f.gradebook.StudentMarks(f.ctx, outsider, f.course.ID, f.term.ID)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}

func TestStudentMarks_NoSectionGivesZeroStats(t *testing.T) {
	f := newGradebookFixture(t)
	loner := f.user(t, "loner@uni.edu", models.RoleStudent, "")
	en := f.enroll(t, loner, f.course.ID, f.term.ID)
	f.mark(t, en.ID, 55)

	resp, err := f.gradebook.StudentMarks(f.ctx, loner, f.course.ID, f.term.ID)
	require.NoError(t, err)
	assert.Equal(t, grading.EmptyStats(), resp.Stats)
}

func TestUpdateMarks(t *testing.T) {
	f := newGradebookFixture(t)

	req := &dto.MarksRequest{Quiz1: fp(8), Mid1: fp(20.5), GraceMarks: fp(1)}
	resp, err := f.gradebook.UpdateMarks(f.ctx, f.teacher, f.enrolled[3].ID, req)
	require.NoError(t, err)
	require.NotNil(t, resp.Total)
	assert.Equal(t, 29.5, *resp.Total)

	stored, err := f.store.Marks.GetByEnrollment(f.ctx, f.enrolled[3].ID)
	require.NoError(t, err)
	assert.Equal(t, 29.5, *stored.Total)
	assert.Equal(t, f.teacher.ID, *stored.UpdatedBy)

	cleared, err := f.gradebook.UpdateMarks(f.ctx, f.teacher, f.enrolled[3].ID, &dto.MarksRequest{})
	require.NoError(t, err)
	assert.Nil(t, cleared.Total)

	outsider := f.user(t, "other@uni.edu", models.RoleFaculty, "")
	_, err = f.gradebook.UpdateMarks(f.ctx, outsider, f.enrolled[0].ID, req)
	assert.ErrorIs(t, err, apperrors.ErrNotCourseInstructor)
}
