package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

func (f *gradebookFixture) session(date string, statuses ...models.AttendanceStatus) *dto.AttendanceRequest {
	req := &dto.AttendanceRequest{TermID: f.term.ID, Date: date}
	for i, status := range statuses {
		req.Records = append(req.Records, dto.AttendanceEntry{EnrollmentID: f.enrolled[i].ID, Status: status})
	}
	return req
}

func TestAttendance_RecordAndReport(t *testing.T) {
	f := newGradebookFixture(t)

	resp, err := f.attendance.Record(f.ctx, f.teacher, f.course.ID, f.session("2026-09-07",
		models.AttendancePresent, models.AttendanceLate, models.AttendanceAbsent, models.AttendanceExcused))
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Recorded)
	assert.Equal(t, "2026-09-07", resp.Date)

	_, err = f.attendance.Record(f.ctx, f.teacher, f.course.ID, f.session("2026-09-14",
		models.AttendancePresent, models.AttendanceAbsent, models.AttendanceAbsent))
	require.NoError(t, err)

	// recording the same date again replaces the earlier status
	_, err = f.attendance.Record(f.ctx, f.teacher, f.course.ID, &dto.AttendanceRequest{
		TermID:  f.term.ID,
		Date:    "2026-09-14",
		Records: []dto.AttendanceEntry{{EnrollmentID: f.enrolled[2].ID, Status: models.AttendancePresent}},
	})
	require.NoError(t, err)

	report, err := f.attendance.CourseReport(f.ctx, f.teacher, f.course.ID, &dto.GradebookQuery{TermID: f.term.ID})
	require.NoError(t, err)
	assert.Empty(t, report.Section)
	require.Len(t, report.Students, 4)

	tests := []struct {
		sessions   int
		percentage *float64
		short      bool
	}{
		{2, fp(100), false},
		{2, fp(50), true},
		{2, fp(50), true},
		{1, nil, false},
	}
	for i, want := range tests {
		row := report.Students[i]
		assert.Equal(t, f.enrolled[i].ID, row.EnrollmentID)
		assert.Equal(t, want.sessions, row.Summary.Sessions, "student %d", i)
		assert.Equal(t, want.short, row.Summary.Short, "student %d", i)
		if want.percentage == nil {
			assert.Nil(t, row.Summary.Percentage, "student %d", i)
			continue
		}
		require.NotNil(t, row.Summary.Percentage, "student %d", i)
		assert.InDelta(t, *want.percentage, *row.Summary.Percentage, 1e-9)
	}
	assert.Equal(t, 1, report.Students[2].Summary.Present)
	assert.Equal(t, 1, report.Students[2].Summary.Absent)
}

func TestAttendance_RecordRejects(t *testing.T) {
	f := newGradebookFixture(t)
	outsider := f.user(t, "other@uni.edu", models.RoleFaculty, "")
	sectionB := f.user(t, "b1@uni.edu", models.RoleStudent, "B")
	enB := f.enroll(t, sectionB, f.course.ID, f.term.ID)

	require.NoError(t, f.store.Enrollments.UpdateStatus(f.ctx, f.enrolled[1].ID, models.EnrollmentDropped))
	require.NoError(t, f.store.Enrollments.UpdateStatus(f.ctx, f.enrolled[2].ID, models.EnrollmentCompleted))

	entry := func(id int64) []dto.AttendanceEntry {
		return []dto.AttendanceEntry{{EnrollmentID: id, Status: models.AttendancePresent}}
	}

	tests := []struct {
		name    string
		actor   *models.User
		req     *dto.AttendanceRequest
		wantErr error
	}{
		{
			name:    "not an instructor of the course",
			actor:   outsider,
			req:     &dto.AttendanceRequest{TermID: f.term.ID, Date: "2026-09-07", Records: entry(f.enrolled[0].ID)},
			wantErr: apperrors.ErrNotCourseInstructor,
		},
		{
			name:    "student outside the instructor's sections",
			actor:   f.teacher,
			req:     &dto.AttendanceRequest{TermID: f.term.ID, Date: "2026-09-07", Records: entry(enB.ID)},
			wantErr: apperrors.ErrNotCourseInstructor,
		},
		{
			name:    "dropped enrollment",
			actor:   f.teacher,
			req:     &dto.AttendanceRequest{TermID: f.term.ID, Date: "2026-09-07", Records: entry(f.enrolled[1].ID)},
			wantErr: apperrors.ErrEnrollmentNotFound,
		},
		{
			name:    "unknown enrollment",
			actor:   f.admin,
			req:     &dto.AttendanceRequest{TermID: f.term.ID, Date: "2026-09-07", Records: entry(9999)},
			wantErr: apperrors.ErrEnrollmentNotFound,
		},
		{
			name:    "completed enrollment",
			actor:   f.teacher,
			req:     &dto.AttendanceRequest{TermID: f.term.ID, Date: "2026-09-07", Records: entry(f.enrolled[2].ID)},
			wantErr: apperrors.ErrEnrollmentNotActive,
		},
		{
			name:  "same enrollment twice",
			actor: f.teacher,
			req: &dto.AttendanceRequest{TermID: f.term.ID, Date: "2026-09-07", Records: []dto.AttendanceEntry{
				{EnrollmentID: f.enrolled[0].ID, Status: models.AttendancePresent},
				{EnrollmentID: f.enrolled[0].ID, Status: models.AttendanceAbsent},
			}},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "impossible date",
			actor:   f.teacher,
			req:     &dto.AttendanceRequest{TermID: f.term.ID, Date: "2026-02-30", Records: entry(f.enrolled[0].ID)},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "unknown term",
			actor:   f.teacher,
			req:     &dto.AttendanceRequest{TermID: 9999, Date: "2026-09-07", Records: entry(f.enrolled[0].ID)},
			wantErr: apperrors.ErrTermNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.attendance.Record(f.ctx, tt.actor, f.course.ID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	records, err := f.store.Attendance.ListByEnrollments(f.ctx, []int64{
		f.enrolled[0].ID, f.enrolled[1].ID, f.enrolled[2].ID, enB.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAttendance_RecordRollsBackOnFailure(t *testing.T) {
	f := newGradebookFixture(t)
	boom := errors.New("connection reset")
	f.db.FailAfter("attendance.upsert", 1, boom)

	_, err := f.attendance.Record(f.ctx, f.teacher, f.course.ID, f.session("2026-09-07",
		models.AttendancePresent, models.AttendancePresent, models.AttendancePresent))
	require.ErrorIs(t, err, boom)

	ids := make([]int64, 0, len(f.enrolled))
	for _, en := range f.enrolled {
		ids = append(ids, en.ID)
	}
	records, err := f.store.Attendance.ListByEnrollments(f.ctx, ids)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAttendance_StudentView(t *testing.T) {
	f := newGradebookFixture(t)
	other := f.testEnv.course(t, "CS102", 3, 0)
	f.section(t, other.ID, "A", f.teacher)
	f.enroll(t, f.students[1], other.ID, f.term.ID)

	_, err := f.attendance.Record(f.ctx, f.teacher, f.course.ID, f.session("2026-09-14",
		models.AttendanceAbsent, models.AttendanceAbsent))
	require.NoError(t, err)
	_, err = f.attendance.Record(f.ctx, f.teacher, f.course.ID, f.session("2026-09-07",
		models.AttendancePresent, models.AttendancePresent))
	require.NoError(t, err)

	view, err := f.attendance.StudentAttendance(f.ctx, f.students[1], f.term.ID)
	require.NoError(t, err)
	require.Len(t, view.Courses, 2)

	var cs101 *dto.CourseAttendance
	for i := range view.Courses {
		if view.Courses[i].CourseCode == "CS101" {
			cs101 = &view.Courses[i]
			continue
		}
		assert.Zero(t, view.Courses[i].Summary.Sessions)
		assert.Empty(t, view.Courses[i].Sessions)
	}
	require.NotNil(t, cs101)
	assert.Equal(t, []dto.AttendanceSession{
		{Date: "2026-09-07", Status: models.AttendancePresent},
		{Date: "2026-09-14", Status: models.AttendanceAbsent},
	}, cs101.Sessions)
	require.NotNil(t, cs101.Summary.Percentage)
	assert.InDelta(t, 50.0, *cs101.Summary.Percentage, 1e-9)
	assert.True(t, cs101.Summary.Short)

	_, err = f.attendance.StudentAttendance(f.ctx, f.students[1], 9999)
	assert.ErrorIs(t, err, apperrors.ErrTermNotFound)
}
