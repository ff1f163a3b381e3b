package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniportal/internal/app/models"
)

func TestTranscript_GPAAndCGPA(t *testing.T) {
	env := newTestEnv(t)
	student := env.user(t, "s@uni.edu", models.RoleStudent, "")
	fall := env.activeTerm(t, "Fall 2026")
	spring := env.activeTerm(t, "Spring 2027")

	algebra := env.course(t, "MA101", 3, 0)
	physics := env.course(t, "PH101", 4, 0)
	seminar := env.course(t, "SEM100", 0, 0)

	for _, tr := range []models.Transcript{
		{UserID: student.ID, CourseID: algebra.ID, TermID: fall.ID, Grade: "A", GradePoints: 4.0},
		{UserID: student.ID, CourseID: seminar.ID, TermID: fall.ID, Grade: "F", GradePoints: 0},
		{UserID: student.ID, CourseID: physics.ID, TermID: spring.ID, Grade: "B+", GradePoints: 3.33},
	} {
		tr := tr
		tr.Status = models.TranscriptFinal
		require.NoError(t, env.store.Transcripts.Upsert(env.ctx, &tr))
	}

	resp, err := env.transcripts.Get(env.ctx, student.ID)
	require.NoError(t, err)

	assert.Len(t, resp.Entries, 3)
	assert.Equal(t, 7, resp.TotalCredits)
	require.Len(t, resp.Terms, 2)

	assert.Equal(t, fall.ID, resp.Terms[0].TermID)
	assert.Equal(t, "Fall 2026", resp.Terms[0].TermName)
	require.NotNil(t, resp.Terms[0].GPA)
	assert.Equal(t, 4.0, *resp.Terms[0].GPA)

	require.NotNil(t, resp.Terms[1].GPA)
	assert.Equal(t, 3.33, *resp.Terms[1].GPA)

	// (12 + 13.32) / 7
	require.NotNil(t, resp.CGPA)
	assert.Equal(t, 3.62, *resp.CGPA)
}

func TestTranscript_Empty(t *testing.T) {
	env := newTestEnv(t)
	student := env.user(t, "s@uni.edu", models.RoleStudent, "")

	resp, err := env.transcripts.Get(env.ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Entries)
	assert.Empty(t, resp.Terms)
	assert.Nil(t, resp.CGPA)
	assert.Zero(t, resp.TotalCredits)
}
