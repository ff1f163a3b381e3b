package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// SettingsDefaults seeds the settings when none have been saved yet
type SettingsDefaults struct {
	EnrollmentOpen bool
	MaxCreditHours int
}

// SettingsService holds the portal settings and keeps them in sync with storage
type SettingsService interface {
	// Load reads the persisted settings into memory, falling back to the defaults
	Load(ctx context.Context) error
	// Current returns the in-memory snapshot
	Current() models.Settings
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Public() dto.PublicSettingsResponse
	Update(ctx context.Context, actorID int64, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsServiceImpl struct {
	repo     repositories.ISettingsRepository
	defaults SettingsDefaults
	current  atomic.Pointer[models.Settings]
}

// NewSettingsService creates a settings service holding the defaults until Load runs
func NewSettingsService(repo repositories.ISettingsRepository, defaults SettingsDefaults) SettingsService {
	s := &settingsServiceImpl{repo: repo, defaults: defaults}
	s.current.Store(s.defaultSettings())
	return s
}

func (s *settingsServiceImpl) defaultSettings() *models.Settings {
	return &models.Settings{
		EnrollmentOpen: s.defaults.EnrollmentOpen,
		MaxCreditHours: s.defaults.MaxCreditHours,
	}
}

func (s *settingsServiceImpl) Load(ctx context.Context) error {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			logger.Info().Msg("No stored settings, using defaults")
			s.current.Store(s.defaultSettings())
			return nil
		}
		return fmt.Errorf("error loading settings: %w", err)
	}
	s.current.Store(stored)
	return nil
}

func (s *settingsServiceImpl) Current() models.Settings {
	return *s.current.Load()
}

func (s *settingsServiceImpl) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	current := s.Current()
	resp := dto.NewSettingsResponse(&current)
	return &resp, nil
}

func (s *settingsServiceImpl) Public() dto.PublicSettingsResponse {
	current := s.Current()
	return dto.NewPublicSettingsResponse(&current)
}

func (s *settingsServiceImpl) Update(ctx context.Context, actorID int64, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	next := s.Current()
	if req.MaintenanceMode != nil {
		next.MaintenanceMode = *req.MaintenanceMode
	}
	if req.MaintenanceMessage != nil {
		next.MaintenanceMessage = *req.MaintenanceMessage
	}
	if req.EnrollmentOpen != nil {
		next.EnrollmentOpen = *req.EnrollmentOpen
	}
	if req.MaxCreditHours != nil {
		next.MaxCreditHours = *req.MaxCreditHours
	}
	next.UpdatedBy = &actorID
	next.UpdatedAt = timeNow()

	if err := s.repo.Save(ctx, &next); err != nil {
		return nil, fmt.Errorf("error saving settings: %w", err)
	}
	s.current.Store(&next)

	logger.Info().Int64("actorID", actorID).
		Bool("maintenanceMode", next.MaintenanceMode).
		Bool("enrollmentOpen", next.EnrollmentOpen).
		Int("maxCreditHours", next.MaxCreditHours).
		Msg("Settings updated")

	resp := dto.NewSettingsResponse(&next)
	return &resp, nil
}
