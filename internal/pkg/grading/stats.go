package grading

import (
	"github.com/yigit/uniportal/internal/app/models"
)

// Scored field names as they appear in gradebook payloads
const (
	FieldAssignment1 = "assignment1"
	FieldAssignment2 = "assignment2"
	FieldQuiz1       = "quiz1"
	FieldQuiz2       = "quiz2"
	FieldQuiz3       = "quiz3"
	FieldQuiz4       = "quiz4"
	FieldMid1        = "mid1"
	FieldMid2        = "mid2"
	FieldFinalExam   = "finalExam"
	FieldGraceMarks  = "graceMarks"
	FieldTotal       = "total"
)

// FieldStats summarises one scored field over a population
type FieldStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

type scoredField struct {
	name string
	get  func(*models.StudentMark) *float64
}

var scoredFields = []scoredField{
	{FieldAssignment1, func(m *models.StudentMark) *float64 { return m.Assignment1 }},
	{FieldAssignment2, func(m *models.StudentMark) *float64 { return m.Assignment2 }},
	{FieldQuiz1, func(m *models.StudentMark) *float64 { return m.Quiz1 }},
	{FieldQuiz2, func(m *models.StudentMark) *float64 { return m.Quiz2 }},
	{FieldQuiz3, func(m *models.StudentMark) *float64 { return m.Quiz3 }},
	{FieldQuiz4, func(m *models.StudentMark) *float64 { return m.Quiz4 }},
	{FieldMid1, func(m *models.StudentMark) *float64 { return m.Mid1 }},
	{FieldMid2, func(m *models.StudentMark) *float64 { return m.Mid2 }},
	{FieldFinalExam, func(m *models.StudentMark) *float64 { return m.FinalExam }},
	{FieldGraceMarks, func(m *models.StudentMark) *float64 { return m.GraceMarks }},
	{FieldTotal, func(m *models.StudentMark) *float64 { return m.Total }},
}

// FieldNames lists every scored field in display order
func FieldNames() []string {
	names := make([]string, len(scoredFields))
	for i, f := range scoredFields {
		names[i] = f.name
	}
	return names
}

// EmptyStats returns zeroed stats for every scored field
func EmptyStats() map[string]FieldStats {
	stats := make(map[string]FieldStats, len(scoredFields))
	for _, f := range scoredFields {
		stats[f.name] = FieldStats{}
	}
	return stats
}

// ComputeFieldStats computes min, max and mean of every scored field.
// Unrecorded (nil) values are left out; a field nobody has a value for stays zeroed.
func ComputeFieldStats(marks []*models.StudentMark) map[string]FieldStats {
	stats := EmptyStats()
	for _, f := range scoredFields {
		var (
			count int
			sum   float64
			fs    FieldStats
		)
		for _, m := range marks {
			if m == nil {
				continue
			}
			v := f.get(m)
			if v == nil {
				continue
			}
			if count == 0 || *v < fs.Min {
				fs.Min = *v
			}
			if count == 0 || *v > fs.Max {
				fs.Max = *v
			}
			sum += *v
			count++
		}
		if count > 0 {
			fs.Avg = sum / float64(count)
			stats[f.name] = fs
		}
	}
	return stats
}
