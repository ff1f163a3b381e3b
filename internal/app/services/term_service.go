package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// TermService manages academic terms
type TermService interface {
	List(ctx context.Context) ([]dto.TermResponse, error)
	GetActive(ctx context.Context) (*dto.TermResponse, error)
	Create(ctx context.Context, req *dto.TermRequest) (*dto.TermResponse, error)
	Update(ctx context.Context, id int64, req *dto.TermRequest) (*dto.TermResponse, error)
	// Activate makes id the only active term
	Activate(ctx context.Context, id int64) (*dto.TermResponse, error)
}

type termServiceImpl struct {
	store *repositories.Store
}

// NewTermService creates a new TermService
func NewTermService(store *repositories.Store) TermService {
	return &termServiceImpl{store: store}
}

func (s *termServiceImpl) List(ctx context.Context) ([]dto.TermResponse, error) {
	terms, err := s.store.Terms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing terms: %w", err)
	}
	resp := make([]dto.TermResponse, 0, len(terms))
	for _, t := range terms {
		resp = append(resp, dto.NewTermResponse(t))
	}
	return resp, nil
}

func (s *termServiceImpl) GetActive(ctx context.Context) (*dto.TermResponse, error) {
	term, err := s.store.Terms.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTermResponse(term)
	return &resp, nil
}

func (s *termServiceImpl) Create(ctx context.Context, req *dto.TermRequest) (*dto.TermResponse, error) {
	term := &models.Term{
		Name:      strings.TrimSpace(req.Name),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.store.Terms.Create(ctx, term); err != nil {
		return nil, fmt.Errorf("error creating term: %w", err)
	}
	resp := dto.NewTermResponse(term)
	return &resp, nil
}

func (s *termServiceImpl) Update(ctx context.Context, id int64, req *dto.TermRequest) (*dto.TermResponse, error) {
	term, err := s.store.Terms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	term.Name = strings.TrimSpace(req.Name)
	term.StartDate = req.StartDate
	term.EndDate = req.EndDate
	if err := s.store.Terms.Update(ctx, term); err != nil {
		return nil, err
	}
	resp := dto.NewTermResponse(term)
	return &resp, nil
}

func (s *termServiceImpl) Activate(ctx context.Context, id int64) (*dto.TermResponse, error) {
	var activated *models.Term
	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if err := repos.Terms.Activate(ctx, id); err != nil {
			return err
		}
		term, err := repos.Terms.GetByID(ctx, id)
		if err != nil {
			return err
		}
		activated = term
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("termID", id).Msg("Term activated")
	resp := dto.NewTermResponse(activated)
	return &resp, nil
}
