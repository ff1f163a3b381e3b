package grading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreToGrade(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		letter string
		points float64
	}{
		{"top of scale", 100, "A", 4.00},
		{"A boundary", 85, "A", 4.00},
		{"just below A", 84.999, "A-", 3.67},
		{"A- boundary", 80, "A-", 3.67},
		{"B+ boundary", 75, "B+", 3.33},
		{"B", 72, "B", 3.00},
		{"B- boundary", 65, "B-", 2.67},
		{"C+ boundary", 60, "C+", 2.33},
		{"C boundary", 55, "C", 2.00},
		{"C- boundary", 50, "C-", 1.67},
		{"D boundary", 40, "D", 1.00},
		{"just below D", 39.999, "F", 0.00},
		{"zero", 0, "F", 0.00},
		{"negative", -5, "F", 0.00},
		{"above 100 is not clamped", 112, "A", 4.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ScoreToGrade(tt.total)
			assert.Equal(t, tt.letter, g.Letter)
			assert.InDelta(t, tt.points, g.Points, 1e-9)
		})
	}
}

func TestScoreToGrade_NaN(t *testing.T) {
	assert.Equal(t, GradeF, ScoreToGrade(math.NaN()))
}
