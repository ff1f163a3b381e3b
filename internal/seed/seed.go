package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/uniportal/internal/app/models"
	appRepos "github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/auth"
)

// Options controls what CreateDefaultData inserts
type Options struct {
	AdminEmail     string
	AdminPassword  string
	EnrollmentOpen bool
	MaxCreditHours int
}

// CreateDefaultData creates the bootstrap admin account and the settings row if they don't exist.
// Failures are collected so that one missing piece does not block the other.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, hasher *auth.PasswordHasher, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (admin account, settings)...")
	var finalErr error

	if err := ensureSettings(ctx, repos.Settings, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default settings")
		finalErr = errors.Join(finalErr, err)
	}

	if err := ensureAdmin(ctx, repos.Users, hasher, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func ensureSettings(ctx context.Context, repo appRepos.ISettingsRepository, opts Options, lgr zerolog.Logger) error {
	_, err := repo.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return err
	}

	if err := repo.Save(ctx, &appModels.Settings{
		EnrollmentOpen: opts.EnrollmentOpen,
		MaxCreditHours: opts.MaxCreditHours,
	}); err != nil {
		return err
	}
	lgr.Info().Bool("enrollmentOpen", opts.EnrollmentOpen).Int("maxCreditHours", opts.MaxCreditHours).
		Msg("Default settings created")
	return nil
}

func ensureAdmin(ctx context.Context, users appRepos.IUserRepository, hasher *auth.PasswordHasher, opts Options, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" || opts.AdminPassword == "" {
		lgr.Warn().Msg("Seed admin credentials not configured, skipping admin creation")
		return nil
	}

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		lgr.Debug().Str("email", email).Msg("Admin account already exists")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hashed, err := hasher.Hash(opts.AdminPassword)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		Email:     email,
		Password:  hashed,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      appModels.RoleAdmin,
		IsActive:  true,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}
	lgr.Info().Str("email", email).Int64("id", admin.ID).Msg("Default admin account created")
	return nil
}
