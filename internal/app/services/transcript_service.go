package services

import (
	"context"
	"fmt"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/grading"
)

// TranscriptService builds transcripts and keeps the stored CGPA current
type TranscriptService interface {
	Get(ctx context.Context, userID int64) (*dto.TranscriptResponse, error)
}

type transcriptServiceImpl struct {
	transcripts repositories.ITranscriptRepository
}

// NewTranscriptService creates a new TranscriptService
func NewTranscriptService(transcripts repositories.ITranscriptRepository) TranscriptService {
	return &transcriptServiceImpl{transcripts: transcripts}
}

func qualityEntries(lines []models.TranscriptLine) []grading.QualityEntry {
	entries := make([]grading.QualityEntry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, grading.QualityEntry{
			TermID:      l.TermID,
			GradePoints: l.GradePoints,
			CreditHours: l.CreditHours,
		})
	}
	return entries
}

func (s *transcriptServiceImpl) Get(ctx context.Context, userID int64) (*dto.TranscriptResponse, error) {
	lines, err := s.transcripts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing transcript: %w", err)
	}

	resp := &dto.TranscriptResponse{
		UserID:  userID,
		Entries: make([]dto.TranscriptEntry, 0, len(lines)),
		Terms:   make([]dto.TranscriptTerm, 0),
	}
	termNames := make(map[int64]string)
	for _, l := range lines {
		termNames[l.TermID] = l.TermName
		if l.CreditHours > 0 {
			resp.TotalCredits += l.CreditHours
		}
		resp.Entries = append(resp.Entries, dto.TranscriptEntry{
			CourseID:    l.CourseID,
			CourseCode:  l.CourseCode,
			CourseTitle: l.CourseTitle,
			CreditHours: l.CreditHours,
			TermID:      l.TermID,
			TermName:    l.TermName,
			Grade:       l.Grade,
			GradePoints: l.GradePoints,
			FinalizedAt: l.FinalizedAt,
		})
	}

	entries := qualityEntries(lines)
	for _, summary := range grading.TermBreakdown(entries) {
		resp.Terms = append(resp.Terms, dto.NewTranscriptTerm(summary, termNames[summary.TermID]))
	}
	resp.CGPA = grading.Round2Ptr(grading.CGPA(entries))
	return resp, nil
}

// RefreshCGPA recomputes the stored CGPA of userID from the final transcript rows
// visible through repos. Call it with transaction-bound repositories.
func RefreshCGPA(ctx context.Context, repos *repositories.Repositories, userID int64) (*float64, error) {
	lines, err := repos.Transcripts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing transcript of user %d: %w", userID, err)
	}
	cgpa := grading.Round2Ptr(grading.CGPA(qualityEntries(lines)))
	if err := repos.Users.UpdateCGPA(ctx, userID, cgpa); err != nil {
		return nil, fmt.Errorf("error updating cgpa of user %d: %w", userID, err)
	}
	return cgpa, nil
}
