package grading

import (
	"math"
	"sort"
)

// QualityEntry is one finalized course result as seen by the GPA calculation
type QualityEntry struct {
	TermID      int64
	GradePoints float64
	CreditHours int
}

// QualityPoints is gradePoints x creditHours; non-positive credit hours contribute nothing
func (e QualityEntry) QualityPoints() float64 {
	if e.CreditHours <= 0 {
		return 0
	}
	return e.GradePoints * float64(e.CreditHours)
}

// TermSummary is the GPA of one term
type TermSummary struct {
	TermID        int64    `json:"termId"`
	GPA           *float64 `json:"gpa"`
	CreditHours   int      `json:"creditHours"`
	QualityPoints float64  `json:"qualityPoints"`
}

// TermGPA computes the GPA of entries belonging to termID.
// It returns nil when the term carries no credit hours.
func TermGPA(entries []QualityEntry, termID int64) *float64 {
	gpa, _, _ := aggregate(entries, func(e QualityEntry) bool { return e.TermID == termID })
	return gpa
}

// CGPA computes the cumulative GPA over every entry, or nil when no credit hours exist.
func CGPA(entries []QualityEntry) *float64 {
	gpa, _, _ := aggregate(entries, func(QualityEntry) bool { return true })
	return gpa
}

// TermBreakdown returns one summary per term, ordered by term id
func TermBreakdown(entries []QualityEntry) []TermSummary {
	seen := make(map[int64]struct{})
	var termIDs []int64
	for _, e := range entries {
		if _, ok := seen[e.TermID]; ok {
			continue
		}
		seen[e.TermID] = struct{}{}
		termIDs = append(termIDs, e.TermID)
	}
	sort.Slice(termIDs, func(i, j int) bool { return termIDs[i] < termIDs[j] })

	summaries := make([]TermSummary, 0, len(termIDs))
	for _, id := range termIDs {
		termID := id
		gpa, hours, points := aggregate(entries, func(e QualityEntry) bool { return e.TermID == termID })
		summaries = append(summaries, TermSummary{
			TermID:        termID,
			GPA:           gpa,
			CreditHours:   hours,
			QualityPoints: points,
		})
	}
	return summaries
}

// aggregate sums quality points in ascending order so the result does not
// depend on the order entries were fetched in.
func aggregate(entries []QualityEntry, include func(QualityEntry) bool) (*float64, int, float64) {
	points := make([]float64, 0, len(entries))
	hours := 0
	for _, e := range entries {
		if !include(e) || e.CreditHours <= 0 {
			continue
		}
		points = append(points, e.QualityPoints())
		hours += e.CreditHours
	}
	if hours == 0 {
		return nil, 0, 0
	}

	sort.Float64s(points)
	var sum float64
	for _, p := range points {
		sum += p
	}
	gpa := sum / float64(hours)
	return &gpa, hours, sum
}

// Round2 rounds to two decimals for presentation
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round2Ptr rounds a nullable value, keeping nil as nil
func Round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}
