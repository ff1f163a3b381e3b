package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/db"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

// settingsRowID is the key of the single settings row
const settingsRowID = 1

// SettingsRepository persists the portal settings row
type SettingsRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(conn db.DBTX) *SettingsRepository {
	return &SettingsRepository{db: conn, sb: newBuilder()}
}

// Get loads the settings row; ErrResourceNotFound when it has never been saved
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	sql, args, err := r.sb.Select("maintenance_mode", "maintenance_message", "enrollment_open",
		"max_credit_hours", "updated_by", "updated_at").
		From("settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get settings query: %w", err)
	}

	var s models.Settings
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.MaintenanceMode, &s.MaintenanceMessage, &s.EnrollmentOpen,
		&s.MaxCreditHours, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving settings: %w", err)
	}
	return &s, nil
}

// Save upserts the settings row
func (r *SettingsRepository) Save(ctx context.Context, s *models.Settings) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}

	sql, args, err := r.sb.Insert("settings").
		Columns("id", "maintenance_mode", "maintenance_message", "enrollment_open",
			"max_credit_hours", "updated_by", "updated_at").
		Values(settingsRowID, s.MaintenanceMode, s.MaintenanceMessage, s.EnrollmentOpen,
			s.MaxCreditHours, s.UpdatedBy, s.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			maintenance_mode = EXCLUDED.maintenance_mode,
			maintenance_message = EXCLUDED.maintenance_message,
			enrollment_open = EXCLUDED.enrollment_open,
			max_credit_hours = EXCLUDED.max_credit_hours,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save settings query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error saving settings: %w", err)
	}
	return nil
}
