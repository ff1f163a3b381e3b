package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCGPA(t *testing.T) {
	entries := []QualityEntry{
		{TermID: 1, GradePoints: 4.00, CreditHours: 3},
		{TermID: 1, GradePoints: 3.00, CreditHours: 4},
		{TermID: 2, GradePoints: 0.00, CreditHours: 3},
	}

	gpa := CGPA(entries)
	require.NotNil(t, gpa)
	// (12 + 12 + 0) / 10
	assert.InDelta(t, 2.4, *gpa, 1e-9)
}

func TestCGPA_NoCreditHours(t *testing.T) {
	assert.Nil(t, CGPA(nil))
	assert.Nil(t, CGPA([]QualityEntry{{TermID: 1, GradePoints: 4, CreditHours: 0}}))
}

func TestCGPA_ZeroCreditEntriesAreIgnored(t *testing.T) {
	entries := []QualityEntry{
		{TermID: 1, GradePoints: 4.00, CreditHours: 3},
		{TermID: 1, GradePoints: 0.00, CreditHours: 0},
		{TermID: 2, GradePoints: 4.00, CreditHours: 0},
		{TermID: 2, GradePoints: 2.00, CreditHours: 2},
		{TermID: 2, GradePoints: 3.00, CreditHours: -1},
	}

	gpa := CGPA(entries)
	require.NotNil(t, gpa)
	// (12 + 4) / 5; the zero and negative hour entries add neither points nor hours
	assert.InDelta(t, 3.2, *gpa, 1e-9)

	term2 := TermGPA(entries, 2)
	require.NotNil(t, term2)
	assert.InDelta(t, 2.0, *term2, 1e-9)
}

func TestTermGPA(t *testing.T) {
	entries := []QualityEntry{
		{TermID: 1, GradePoints: 4.00, CreditHours: 3},
		{TermID: 2, GradePoints: 2.00, CreditHours: 3},
		{TermID: 2, GradePoints: 3.00, CreditHours: 1},
	}

	term2 := TermGPA(entries, 2)
	require.NotNil(t, term2)
	assert.InDelta(t, 9.0/4.0, *term2, 1e-9)

	assert.Nil(t, TermGPA(entries, 99))
}

func TestCGPA_OrderIndependent(t *testing.T) {
	entries := []QualityEntry{
		{TermID: 1, GradePoints: 3.67, CreditHours: 3},
		{TermID: 1, GradePoints: 2.33, CreditHours: 4},
		{TermID: 2, GradePoints: 1.67, CreditHours: 2},
		{TermID: 3, GradePoints: 3.33, CreditHours: 3},
		{TermID: 3, GradePoints: 0.1, CreditHours: 1},
	}
	reversed := make([]QualityEntry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}

	a := CGPA(entries)
	b := CGPA(reversed)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, *a, *b)
}

func TestTermBreakdown(t *testing.T) {
	entries := []QualityEntry{
		{TermID: 5, GradePoints: 2.00, CreditHours: 3},
		{TermID: 2, GradePoints: 4.00, CreditHours: 3},
		{TermID: 5, GradePoints: 4.00, CreditHours: 3},
		{TermID: 7, GradePoints: 4.00, CreditHours: 0},
	}

	summaries := TermBreakdown(entries)
	require.Len(t, summaries, 3)

	assert.Equal(t, int64(2), summaries[0].TermID)
	require.NotNil(t, summaries[0].GPA)
	assert.InDelta(t, 4.0, *summaries[0].GPA, 1e-9)

	assert.Equal(t, int64(5), summaries[1].TermID)
	assert.Equal(t, 6, summaries[1].CreditHours)
	assert.InDelta(t, 18.0, summaries[1].QualityPoints, 1e-9)
	require.NotNil(t, summaries[1].GPA)
	assert.InDelta(t, 3.0, *summaries[1].GPA, 1e-9)

	assert.Equal(t, int64(7), summaries[2].TermID)
	assert.Nil(t, summaries[2].GPA)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, Round2(3.3333))
	assert.Equal(t, 2.67, Round2(2.666))
	assert.Nil(t, Round2Ptr(nil))

	v := 1.005
	assert.NotNil(t, Round2Ptr(&v))
}
