package dto

import (
	"time"

	"github.com/yigit/uniportal/internal/pkg/grading"
)

// TranscriptEntry is one finalized course on a transcript
type TranscriptEntry struct {
	CourseID    int64     `json:"courseId"`
	CourseCode  string    `json:"courseCode"`
	CourseTitle string    `json:"courseTitle"`
	CreditHours int       `json:"creditHours"`
	TermID      int64     `json:"termId"`
	TermName    string    `json:"termName"`
	Grade       string    `json:"grade"`
	GradePoints float64   `json:"gradePoints"`
	FinalizedAt time.Time `json:"finalizedAt"`
}

// TranscriptTerm is the GPA summary of one term
type TranscriptTerm struct {
	TermID        int64    `json:"termId"`
	TermName      string   `json:"termName"`
	GPA           *float64 `json:"gpa"`
	CreditHours   int      `json:"creditHours"`
	QualityPoints float64  `json:"qualityPoints"`
}

// TranscriptResponse is a student's full transcript
type TranscriptResponse struct {
	UserID       int64             `json:"userId"`
	Entries      []TranscriptEntry `json:"entries"`
	Terms        []TranscriptTerm  `json:"terms"`
	CGPA         *float64          `json:"cgpa"`
	TotalCredits int               `json:"totalCredits"`
}

// NewTranscriptTerm rounds a term summary for presentation
func NewTranscriptTerm(s grading.TermSummary, termName string) TranscriptTerm {
	return TranscriptTerm{
		TermID:        s.TermID,
		TermName:      termName,
		GPA:           grading.Round2Ptr(s.GPA),
		CreditHours:   s.CreditHours,
		QualityPoints: grading.Round2(s.QualityPoints),
	}
}
