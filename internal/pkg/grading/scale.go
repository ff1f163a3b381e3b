// Package grading holds the institutional grading rules: the letter-grade scale,
// gradebook statistics and GPA aggregation. Everything here is pure.
package grading

// Grade is a letter grade with its grade-point value
type Grade struct {
	Letter string  `json:"grade"`
	Points float64 `json:"gradePoints"`
}

type threshold struct {
	min   float64
	grade Grade
}

// scale is evaluated top-down; the first inclusive lower bound that matches wins.
var scale = []threshold{
	{85, Grade{"A", 4.00}},
	{80, Grade{"A-", 3.67}},
	{75, Grade{"B+", 3.33}},
	{70, Grade{"B", 3.00}},
	{65, Grade{"B-", 2.67}},
	{60, Grade{"C+", 2.33}},
	{55, Grade{"C", 2.00}},
	{50, Grade{"C-", 1.67}},
	{40, Grade{"D", 1.00}},
}

// GradeF is returned for every total below the lowest threshold
var GradeF = Grade{"F", 0.00}

// ScoreToGrade maps a composite total to its letter grade.
// Totals are not clamped: anything at or above 85 is an A, anything below 40 (or NaN) is an F.
func ScoreToGrade(total float64) Grade {
	for _, t := range scale {
		if total >= t.min {
			return t.grade
		}
	}
	return GradeF
}
