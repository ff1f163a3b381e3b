package bootstrap

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	appRepos "github.com/yigit/uniportal/internal/app/repositories"
)

// tokenPurgeSpec runs the revocation cleanup at the top of every hour
const tokenPurgeSpec = "@hourly"

// StartScheduler registers the background jobs and starts the scheduler.
// Callers stop it with Stop() during shutdown.
func StartScheduler(tokens appRepos.ITokenRepository, lgr zerolog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(tokenPurgeSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		purgeExpiredTokens(ctx, tokens, time.Now().UTC(), lgr)
	}); err != nil {
		return nil, err
	}

	c.Start()
	lgr.Info().Str("tokenPurge", tokenPurgeSpec).Msg("Background scheduler started")
	return c, nil
}

// purgeExpiredTokens deletes revocations whose token has expired anyway
func purgeExpiredTokens(ctx context.Context, tokens appRepos.ITokenRepository, now time.Time, lgr zerolog.Logger) int64 {
	purged, err := tokens.PurgeExpired(ctx, now)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to purge expired token revocations")
		return 0
	}
	if purged > 0 {
		lgr.Info().Int64("purged", purged).Msg("Expired token revocations purged")
	}
	return purged
}
