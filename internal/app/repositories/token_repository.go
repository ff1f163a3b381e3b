package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/uniportal/internal/db"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// TokenRepository records access tokens revoked before their expiry
type TokenRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(conn db.DBTX) *TokenRepository {
	return &TokenRepository{db: conn, sb: newBuilder()}
}

// Revoke stores the token id until expiresAt; revoking twice is a no-op
func (r *TokenRepository) Revoke(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("revoked_tokens").
		Columns("jti", "user_id", "expires_at", "revoked_at").
		Values(tokenID, userID, expiresAt, time.Now().UTC()).
		Suffix("ON CONFLICT (jti) DO NOTHING").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building revoke token SQL")
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing revoke token query")
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id has been revoked
func (r *TokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("revoked_tokens").
		Where(squirrel.Eq{"jti": tokenID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build revoked token query: %w", err)
	}

	var one int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking revoked token: %w", err)
	}
	return true, nil
}

// PurgeExpired deletes revocations whose token has expired anyway
func (r *TokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.sb.Delete("revoked_tokens").
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build purge tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing purge tokens query")
		return 0, fmt.Errorf("error purging tokens: %w", err)
	}

	deleted := cmdTag.RowsAffected()
	if deleted > 0 {
		logger.Info().Int64("deletedCount", deleted).Msg("Purged expired token revocations")
	}
	return deleted, nil
}
