package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// FeeService keeps the per-student fee ledger
type FeeService interface {
	// Record appends a charge or payment to a student's ledger and notifies the student
	Record(ctx context.Context, actor *models.User, userID int64, req *dto.FeeEntryRequest) (*dto.FeeEntryResponse, error)
	// Ledger returns the student's entries and balances, for one term when termID is set
	Ledger(ctx context.Context, userID int64, termID *int64) (*dto.FeeLedgerResponse, error)
}

type feeServiceImpl struct {
	fees          repositories.IFeeRepository
	users         repositories.IUserRepository
	terms         repositories.ITermRepository
	notifications NotificationService
}

// NewFeeService creates a new FeeService
func NewFeeService(
	fees repositories.IFeeRepository,
	users repositories.IUserRepository,
	terms repositories.ITermRepository,
	notifications NotificationService,
) FeeService {
	return &feeServiceImpl{
		fees:          fees,
		users:         users,
		terms:         terms,
		notifications: notifications,
	}
}

// FormatCents renders minor units as a two-decimal amount
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (s *feeServiceImpl) Record(ctx context.Context, actor *models.User, userID int64, req *dto.FeeEntryRequest) (*dto.FeeEntryResponse, error) {
	student, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.NewValidationError("Fees are kept for students only", map[string]interface{}{
			"userId": "must be a student",
		})
	}
	term, err := s.terms.GetByID(ctx, req.TermID)
	if err != nil {
		return nil, err
	}

	entry := &models.FeeEntry{
		UserID:      student.ID,
		TermID:      term.ID,
		Kind:        req.Kind,
		AmountCents: req.AmountCents,
		Description: strings.TrimSpace(req.Description),
		Reference:   strings.TrimSpace(req.Reference),
		RecordedBy:  &actor.ID,
	}
	if err := s.fees.Create(ctx, entry); err != nil {
		return nil, err
	}

	logger.Info().Int64("actorID", actor.ID).Int64("userID", student.ID).Int64("termID", term.ID).
		Str("kind", string(entry.Kind)).Int64("amountCents", entry.AmountCents).Msg("Fee entry recorded")

	title := "New fee charge"
	if entry.Kind == models.FeePayment {
		title = "Payment received"
	}
	body := fmt.Sprintf("%s: %s (%s)", entry.Description, FormatCents(entry.AmountCents), term.Name)
	if err := s.notifications.Notify(ctx, student, title, body); err != nil {
		logger.Warn().Err(err).Int64("userID", student.ID).Msg("Failed to notify student of fee entry")
	}

	resp := dto.NewFeeEntryResponse(entry)
	return &resp, nil
}

func (s *feeServiceImpl) Ledger(ctx context.Context, userID int64, termID *int64) (*dto.FeeLedgerResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if termID != nil {
		if _, err := s.terms.GetByID(ctx, *termID); err != nil {
			return nil, err
		}
	}

	entries, err := s.fees.List(ctx, models.FeeFilter{UserID: userID, TermID: termID})
	if err != nil {
		return nil, fmt.Errorf("error listing fee ledger: %w", err)
	}
	terms, err := s.terms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing terms: %w", err)
	}
	termNames := make(map[int64]string, len(terms))
	for _, t := range terms {
		termNames[t.ID] = t.Name
	}

	resp := &dto.FeeLedgerResponse{
		UserID:  userID,
		Entries: make([]dto.FeeEntryResponse, 0, len(entries)),
		Terms:   make([]dto.FeeTermSummary, 0),
	}
	perTerm := make(map[int64]*dto.FeeTermSummary)
	for _, e := range entries {
		resp.Entries = append(resp.Entries, dto.NewFeeEntryResponse(e))

		summary, ok := perTerm[e.TermID]
		if !ok {
			summary = &dto.FeeTermSummary{TermID: e.TermID, TermName: termNames[e.TermID]}
			perTerm[e.TermID] = summary
		}
		switch e.Kind {
		case models.FeeCharge:
			summary.ChargedCents += e.AmountCents
			resp.ChargedCents += e.AmountCents
		case models.FeePayment:
			summary.PaidCents += e.AmountCents
			resp.PaidCents += e.AmountCents
		}
	}

	for _, summary := range perTerm {
		summary.BalanceCents = summary.ChargedCents - summary.PaidCents
		resp.Terms = append(resp.Terms, *summary)
	}
	sort.Slice(resp.Terms, func(i, j int) bool { return resp.Terms[i].TermID < resp.Terms[j].TermID })
	resp.BalanceCents = resp.ChargedCents - resp.PaidCents
	return resp, nil
}
